package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, r *Recorder, name, label, value string) float64 {
	t.Helper()
	families, err := r.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
			if label == "" {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRecorder_Counts(t *testing.T) {
	r := New("offerings")
	r.Transition("approve")
	r.Transition("approve")
	r.Transition("reject")
	r.NotificationFailed("NewListing")
	r.StorageError()

	assert.Equal(t, 2.0, counterValue(t, r, "offerings_listings_transitions_total", "transition", "approve"))
	assert.Equal(t, 1.0, counterValue(t, r, "offerings_listings_transitions_total", "transition", "reject"))
	assert.Equal(t, 1.0, counterValue(t, r, "offerings_listings_notifications_failed_total", "kind", "NewListing"))
	assert.Equal(t, 1.0, counterValue(t, r, "offerings_listings_storage_errors_total", "", ""))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	r.Transition("approve")
	r.NotificationFailed("NewListing")
	r.StorageError()
	assert.NotNil(t, r.Handler())
}

func TestRecorder_Handler(t *testing.T) {
	r := New("offerings")
	r.Transition("submit")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `offerings_listings_transitions_total{transition="submit"} 1`)
}
