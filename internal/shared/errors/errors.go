package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")

	// ErrLimitExceeded is returned when a chat already holds the maximum
	// number of filters and an add would grow the set.
	ErrLimitExceeded = errors.New("filter limit exceeded")

	// ErrKeywordNotFound is returned on remove/lookup of an absent keyword.
	ErrKeywordNotFound = errors.New("keyword not found")

	// ErrEmptyResponse marks a text filter whose body is empty after
	// button extraction and trimming. A reply of buttons alone is invalid.
	ErrEmptyResponse = errors.New("empty filter response")

	ErrInvalidFilter = errors.New("invalid filter")
)

// DeliveryKind classifies outbound send failures into the closed set the
// dispatcher switches on. Anything not recognized by the transport adapter
// is DeliveryOther.
type DeliveryKind string

const (
	DeliveryUnsupportedScheme  DeliveryKind = "unsupported_link_scheme"
	DeliveryReplyTargetMissing DeliveryKind = "reply_target_missing"
	DeliveryOther              DeliveryKind = "other"
)

// DeliveryError wraps a transport failure with its classification.
type DeliveryError struct {
	Kind DeliveryKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// KindOf returns the delivery classification of err, or DeliveryOther when
// err carries none.
func KindOf(err error) DeliveryKind {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind
	}
	return DeliveryOther
}
