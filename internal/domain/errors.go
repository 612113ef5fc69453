package domain

import "errors"

// Sentinel errors for the chat domain. These provide consistent, checkable
// errors for the few failure conditions a client can run into.
var (
	ErrEmptyText          = errors.New("message text must not be empty")
	ErrSubscriptionClosed = errors.New("subscription closed")
)
