package services

import "errors"

// Errors shared by every resource service. NotFound and Forbidden stay
// distinct internally even when a handler masks them at the transport level.
var (
	ErrForbidden         = errors.New("access denied")
	ErrInvalidAssignment = errors.New("assignee is not part of the project")
	ErrInvitationInvalid = errors.New("invalid or expired invitation")
)
