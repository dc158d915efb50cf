package ranking

import (
	"fmt"
	"sort"
	"strings"

	"offerings-backend/internal/domain"
)

// Direction is a manual reorder request from the catalog view.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts up or down (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", domain.ErrValidationFailed, s)
	}
}

func tier(l *domain.Listing) int {
	switch {
	case l.ApprovalStatus == domain.ApprovalPending:
		return 0
	case l.Published:
		return 1
	default:
		return 2
	}
}

// Less orders the operator catalog: pending first, then published before hidden,
// then DisplayOrder descending, then most recently touched. The id breaks exact ties.
func Less(a, b *domain.Listing) bool {
	if ta, tb := tier(a), tier(b); ta != tb {
		return ta < tb
	}
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder > b.DisplayOrder
	}
	if ta, tb := a.LastTouched(), b.LastTouched(); !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ListingID.String() < b.ListingID.String()
}

// Sort orders ls in place.
func Sort(ls []*domain.Listing) {
	sort.SliceStable(ls, func(i, j int) bool { return Less(ls[i], ls[j]) })
}

// IndexOf returns the position of id in ls, or -1.
func IndexOf(ls []*domain.Listing, id fmt.Stringer) int {
	key := id.String()
	for i, l := range ls {
		if l.ListingID.String() == key {
			return i
		}
	}
	return -1
}

// Reorderer computes the new DisplayOrder of the listing at index within an
// already sorted catalog. moved is false when nothing should change.
type Reorderer interface {
	Reorder(sorted []*domain.Listing, index int, dir Direction) (order int, moved bool)
}

// Nudge places the listing one step past its neighbour: up takes the order of the
// listing above plus one, down the order of the listing below minus one. It does not
// renumber, so orders can tie or drift; DisplayOrder is a weight, not a rank.
type Nudge struct{}

func (Nudge) Reorder(sorted []*domain.Listing, index int, dir Direction) (int, bool) {
	if index < 0 || index >= len(sorted) {
		return 0, false
	}
	current := sorted[index].DisplayOrder
	switch dir {
	case Up:
		if index == 0 {
			return current, false
		}
		return sorted[index-1].DisplayOrder + 1, true
	case Down:
		if index == len(sorted)-1 {
			return current, false
		}
		return sorted[index+1].DisplayOrder - 1, true
	default:
		return current, false
	}
}
