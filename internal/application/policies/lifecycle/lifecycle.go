package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"offerings-backend/internal/application/pricing"
	"offerings-backend/internal/domain"
)

// Target is the tri-state used by the moderation dashboard.
type Target string

const (
	TargetPublished Target = "published"
	TargetPending   Target = "pending"
	TargetPaused    Target = "paused"
)

// Transition names, used as audit and metric labels.
const (
	TransitionSubmit    = "submit"
	TransitionResubmit  = "resubmit"
	TransitionApprove   = "approve"
	TransitionReject    = "reject"
	TransitionSetStatus = "set_status"
)

// ParseTarget accepts published, pending or paused (case-insensitive).
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetPublished, TargetPending, TargetPaused:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrValidationFailed, s)
	}
}

// StatusOf reports the dashboard tri-state of l. Rejected listings map to pending.
func StatusOf(l *domain.Listing) Target {
	switch {
	case l.ApprovalStatus == domain.ApprovalApproved && l.Published:
		return TargetPublished
	case l.ApprovalStatus == domain.ApprovalApproved:
		return TargetPaused
	default:
		return TargetPending
	}
}

// Authorize allows the owner of l or an operator.
func Authorize(a domain.Actor, l *domain.Listing) error {
	if a.Operator || a.Owns(l) {
		return nil
	}
	return domain.ErrAccessDenied
}

// RequireOperator allows operators only.
func RequireOperator(a domain.Actor) error {
	if a.Operator {
		return nil
	}
	return domain.ErrAccessDenied
}

// RequireGuide allows callers that carry an owner identity.
func RequireGuide(a domain.Actor) error {
	if a.IsGuide() {
		return nil
	}
	return domain.ErrAccessDenied
}

// Validate checks the fields a listing needs before it can enter review.
func Validate(l *domain.Listing) error {
	var missing []string
	if strings.TrimSpace(l.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(l.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(l.MediaURL) == "" {
		missing = append(missing, "media_url")
	}
	switch l.Category.Class() {
	case domain.ClassInventory:
		if l.Inventory == nil {
			missing = append(missing, "inventory")
		}
	default:
		if l.Capacity == nil && len(l.AvailableDates) == 0 {
			missing = append(missing, "capacity or available_dates")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrValidationFailed, strings.Join(missing, ", "))
	}
	if !pricing.Consistent(l) {
		return fmt.Errorf("%w: pricing was not computed", domain.ErrValidationFailed)
	}
	return nil
}

// Submit moves a new draft into review.
func Submit(l *domain.Listing) error {
	if err := Validate(l); err != nil {
		return err
	}
	l.ApprovalStatus = domain.ApprovalPending
	l.Published = false
	return nil
}

// Resubmit applies the review reset after an edit. Owner edits always go back to
// pending and unpublished; operator edits keep the current moderation state.
func Resubmit(a domain.Actor, l *domain.Listing) error {
	if err := Authorize(a, l); err != nil {
		return err
	}
	if err := Validate(l); err != nil {
		return err
	}
	if !a.Operator {
		l.ApprovalStatus = domain.ApprovalPending
		l.Published = false
	}
	return nil
}

// Approve is the only transition that publishes.
func Approve(a domain.Actor, l *domain.Listing, now time.Time) error {
	if err := RequireOperator(a); err != nil {
		return err
	}
	markApproved(l, now)
	l.Published = true
	return nil
}

// Reject hides the listing from the public feed.
func Reject(a domain.Actor, l *domain.Listing) error {
	if err := RequireOperator(a); err != nil {
		return err
	}
	l.ApprovalStatus = domain.ApprovalRejected
	l.Published = false
	return nil
}

// SetStatus maps the dashboard tri-state onto approval and publication.
func SetStatus(a domain.Actor, l *domain.Listing, target Target, now time.Time) error {
	if err := RequireOperator(a); err != nil {
		return err
	}
	switch target {
	case TargetPublished:
		markApproved(l, now)
		l.Published = true
	case TargetPending:
		l.ApprovalStatus = domain.ApprovalPending
		l.Published = false
	case TargetPaused:
		markApproved(l, now)
		l.Published = false
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidationFailed, target)
	}
	return nil
}

// CheckCategoryChange refuses a category change on a listing that was ever approved.
func CheckCategoryChange(l *domain.Listing, next domain.Category) error {
	if next == l.Category {
		return nil
	}
	if l.ApprovedAt != nil {
		return fmt.Errorf("%w: category cannot change after approval", domain.ErrValidationFailed)
	}
	return nil
}

func markApproved(l *domain.Listing, now time.Time) {
	l.ApprovalStatus = domain.ApprovalApproved
	if l.ApprovedAt == nil {
		t := now
		l.ApprovedAt = &t
	}
}
