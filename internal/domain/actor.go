package domain

import "github.com/google/uuid"

// Actor is the caller identity handed over by the session layer. It is trusted as-is.
type Actor struct {
	UserID   string
	GuideID  uuid.UUID
	Operator bool
}

// IsGuide reports whether the actor carries an owner identity.
func (a Actor) IsGuide() bool {
	return a.GuideID != uuid.Nil
}

// Owns reports whether the actor is the owner of l.
func (a Actor) Owns(l *Listing) bool {
	return a.IsGuide() && l != nil && l.GuideID == a.GuideID
}

// Label is used in logs and audit rows.
func (a Actor) Label() string {
	switch {
	case a.Operator:
		return "operator:" + a.UserID
	case a.IsGuide():
		return "guide:" + a.GuideID.String()
	default:
		return "anonymous"
	}
}
