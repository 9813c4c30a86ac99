package contract

import "errors"

var (
	// ErrValidation covers malformed identifiers, missing required fields,
	// and invalid enum values. Surfaced immediately, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound is returned both when a task is absent and when it
	// belongs to a different owner; the two cases are indistinguishable.
	ErrTaskNotFound = errors.New("task not found")

	// ErrConversationNotFound follows the same rule for conversations.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrProviderUnavailable marks a failed or timed-out completion call.
	// Caught at the orchestrator boundary and degraded into a reply.
	ErrProviderUnavailable = errors.New("completion provider unavailable")

	// ErrToolDispatch marks a single intent that could not be dispatched,
	// e.g. malformed argument JSON. Never aborts sibling intents.
	ErrToolDispatch = errors.New("tool dispatch failed")
)
