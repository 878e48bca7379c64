package store

import "errors"

var (
	// ErrNotFound is returned for operations on an unknown conversation id.
	ErrNotFound = errors.New("conversation not found")

	// ErrInvalidMessage is returned when a text message has an empty or
	// whitespace-only body, or when item-list content is inconsistent with
	// the message kind. The transcript is left unchanged.
	ErrInvalidMessage = errors.New("invalid message")
)
