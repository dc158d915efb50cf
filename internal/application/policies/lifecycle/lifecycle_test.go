package lifecycle

import (
	"errors"
	"testing"
	"time"

	"offerings-backend/internal/application/pricing"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func draft(t *testing.T, owner uuid.UUID) *domain.Listing {
	t.Helper()
	capacity := 12
	l := &domain.Listing{
		GuideID:     owner,
		Category:    domain.CategoryCeremony,
		Title:       "Full moon ceremony",
		Description: "Night ceremony by the lake",
		MediaURL:    "https://video.example/full-moon",
		BasePrice:   200,
		Capacity:    &capacity,
	}
	require.NoError(t, pricing.Apply(l))
	return l
}

func TestSubmit_EntersPending(t *testing.T) {
	l := draft(t, uuid.New())
	l.Published = true
	require.NoError(t, Submit(l))
	assert.Equal(t, domain.ApprovalPending, l.ApprovalStatus)
	assert.False(t, l.Published)
}

func TestSubmit_MissingFields(t *testing.T) {
	l := draft(t, uuid.New())
	l.Title = " "
	l.MediaURL = ""
	err := Submit(l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "media_url")
}

func TestSubmit_RequiresFieldOfCategoryClass(t *testing.T) {
	l := draft(t, uuid.New())
	l.Capacity = nil
	assert.True(t, errors.Is(Submit(l), domain.ErrValidationFailed))

	l.AvailableDates = domain.DateSet{"2026-10-20"}
	assert.NoError(t, Submit(l))

	product := draft(t, uuid.New())
	product.Category = domain.CategoryProduct
	product.Capacity = nil
	assert.True(t, errors.Is(Submit(product), domain.ErrValidationFailed))
	stock := 4
	product.Inventory = &stock
	assert.NoError(t, Submit(product))
}

func TestSubmit_RequiresComputedPricing(t *testing.T) {
	l := draft(t, uuid.New())
	l.FinalPrice = l.BasePrice
	assert.True(t, errors.Is(Submit(l), domain.ErrValidationFailed))
}

func TestResubmit_OwnerAlwaysResets(t *testing.T) {
	owner := uuid.New()
	states := []struct {
		status    domain.ApprovalStatus
		published bool
	}{
		{domain.ApprovalPending, false},
		{domain.ApprovalApproved, true},
		{domain.ApprovalApproved, false},
		{domain.ApprovalRejected, false},
	}
	for _, st := range states {
		l := draft(t, owner)
		l.ApprovalStatus = st.status
		l.Published = st.published
		require.NoError(t, Resubmit(domain.Actor{GuideID: owner}, l))
		assert.Equal(t, domain.ApprovalPending, l.ApprovalStatus)
		assert.False(t, l.Published)
	}
}

func TestResubmit_OperatorKeepsState(t *testing.T) {
	l := draft(t, uuid.New())
	l.ApprovalStatus = domain.ApprovalApproved
	l.Published = true
	require.NoError(t, Resubmit(domain.Actor{UserID: "op", Operator: true}, l))
	assert.Equal(t, domain.ApprovalApproved, l.ApprovalStatus)
	assert.True(t, l.Published)
}

func TestResubmit_StrangerDenied(t *testing.T) {
	l := draft(t, uuid.New())
	err := Resubmit(domain.Actor{GuideID: uuid.New()}, l)
	assert.Equal(t, domain.ErrAccessDenied, err)
	assert.Equal(t, domain.ApprovalStatus(""), l.ApprovalStatus)
}

func TestApproveAndReject(t *testing.T) {
	op := domain.Actor{UserID: "op", Operator: true}
	l := draft(t, uuid.New())

	require.NoError(t, Approve(op, l, now))
	assert.Equal(t, domain.ApprovalApproved, l.ApprovalStatus)
	assert.True(t, l.Published)
	require.NotNil(t, l.ApprovedAt)
	assert.Equal(t, now, *l.ApprovedAt)

	require.NoError(t, Reject(op, l))
	assert.Equal(t, domain.ApprovalRejected, l.ApprovalStatus)
	assert.False(t, l.Published)

	require.NoError(t, Approve(op, l, now.Add(time.Hour)))
	assert.Equal(t, now, *l.ApprovedAt)
}

func TestOperatorTransitions_DenyOwner(t *testing.T) {
	owner := uuid.New()
	guide := domain.Actor{GuideID: owner}
	l := draft(t, owner)

	assert.Equal(t, domain.ErrAccessDenied, Approve(guide, l, now))
	assert.Equal(t, domain.ErrAccessDenied, Reject(guide, l))
	assert.Equal(t, domain.ErrAccessDenied, SetStatus(guide, l, TargetPublished, now))
	assert.False(t, l.Published)
}

func TestSetStatus(t *testing.T) {
	op := domain.Actor{UserID: "op", Operator: true}
	l := draft(t, uuid.New())

	require.NoError(t, SetStatus(op, l, TargetPaused, now))
	assert.Equal(t, domain.ApprovalApproved, l.ApprovalStatus)
	assert.False(t, l.Published)
	assert.Equal(t, TargetPaused, StatusOf(l))

	require.NoError(t, SetStatus(op, l, TargetPublished, now))
	assert.True(t, l.Published)
	assert.Equal(t, TargetPublished, StatusOf(l))

	require.NoError(t, SetStatus(op, l, TargetPending, now))
	assert.Equal(t, domain.ApprovalPending, l.ApprovalStatus)
	assert.False(t, l.Published)
	assert.Equal(t, TargetPending, StatusOf(l))

	assert.True(t, errors.Is(SetStatus(op, l, Target("archived"), now), domain.ErrValidationFailed))
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget(" Paused ")
	require.NoError(t, err)
	assert.Equal(t, TargetPaused, got)

	_, err = ParseTarget("deleted")
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
}

func TestCheckCategoryChange(t *testing.T) {
	l := draft(t, uuid.New())
	assert.NoError(t, CheckCategoryChange(l, domain.CategoryEvent))

	require.NoError(t, Approve(domain.Actor{Operator: true}, l, now))
	assert.NoError(t, CheckCategoryChange(l, domain.CategoryCeremony))
	assert.True(t, errors.Is(CheckCategoryChange(l, domain.CategoryProduct), domain.ErrValidationFailed))
}
