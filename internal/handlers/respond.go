package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskflow-app/taskflow-api/internal/errors"
	"github.com/taskflow-app/taskflow-api/internal/services"
)

// respondServiceError translates service sentinel errors into transport
// responses. NotFound and Forbidden stay distinguishable here; only the
// invitation flow deliberately collapses its failure modes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrInvitationNotYours):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidAssignment):
		apierrors.InvalidAssignment(c, err.Error())
	case errors.Is(err, services.ErrInvitationInvalid):
		apierrors.InvitationInvalid(c)
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectTitle),
		errors.Is(err, services.ErrInvalidTaskTitle),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrSearchQueryTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam parses a numeric URL parameter
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
