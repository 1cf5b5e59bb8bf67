package constants

import "time"

// Session
const (
	SessionCookieName = "taskflow_session"
	ContextKeyUserID  = "user_id"
)

// Authentication
const (
	MinPasswordLength = 6
	OTPLength         = 6
	OTPTTL            = 10 * time.Minute
)

// Invitations
const (
	InvitationTTL = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// User search
const (
	MinSearchQueryLength = 2
	SearchResultLimit    = 10
)
