package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session handle is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidRole is returned for roles other than tenant and landlord.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUserIDRequired is returned when a session is started without a user.
	ErrUserIDRequired = errors.New("user id is required")
	// ErrUnknownActionKind is returned for kinds outside the closed enumeration.
	ErrUnknownActionKind = errors.New("unknown action kind")
	// ErrInvalidActionData is returned when action data does not fit its kind.
	ErrInvalidActionData = errors.New("invalid action data")
	// ErrCollaborator wraps failures reported by a domain service.
	ErrCollaborator = errors.New("collaborator failure")
	// ErrPreconditionMissing is returned when a required context field is absent.
	ErrPreconditionMissing = errors.New("precondition missing")
	// ErrProviderFailure wraps failures of the AI completion provider.
	ErrProviderFailure = errors.New("provider failure")
)
