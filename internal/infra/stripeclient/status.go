package stripeclient

import "strings"

const (
	StatusNone     = "none"
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// NormalizeStatus maps Stripe's subscription status vocabulary onto the local
// enumeration. All status strings written to profiles and subscription rows
// pass through here; nothing else compares raw Stripe status literals.
func NormalizeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "":
		return StatusNone
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return strings.TrimSpace(s)
	}
}

// IsEntitled reports whether a profile status grants access to subscriber
// content.
func IsEntitled(s *string) bool {
	if s == nil {
		return false
	}
	switch NormalizeStatus(*s) {
	case StatusActive, StatusTrialing:
		return true
	default:
		return false
	}
}
