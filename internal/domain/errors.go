package domain

import "github.com/Manish1808/Cybernauts/internal/apperr"

// Domain errors.
var (
	ErrEventNotFound       = apperr.NotFound("event not found")
	ErrParticipantNotFound = apperr.NotFound("participant not found")
	ErrAlreadyRegistered   = apperr.Conflict("you are already registered for this event")
	ErrNotParticipant      = apperr.Forbidden("you must be a registered participant to provide feedback")
	ErrFeedbackSubmitted   = apperr.Conflict("you have already submitted feedback for this event")
	ErrRatingOutOfRange    = apperr.InvalidInput("Rating must be between 1 and 5")
	ErrContactNotFound     = apperr.NotFound("contact not found")
	ErrBlogNotFound        = apperr.NotFound("blog not found")
	ErrAdminNotFound       = apperr.NotFound("admin not found")
	ErrAdminExists         = apperr.Conflict("an admin with this email already exists")
)
