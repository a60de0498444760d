/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally within
the server and in WebSocket error events and REST responses sent to clients.
*/
package errs

// 1xxx: General Request and Payload Errors
const (
	// ErrMissingFields indicates that one or more required payload fields were absent or empty.
	ErrMissingFields = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidPayload indicates that a payload could not be decoded as JSON.
	ErrInvalidPayload = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrUnsupportedEvent indicates that the client sent an event type the server does not handle.
	ErrUnsupportedEvent = 1008
)

// 2xxx: Ticket and Notification Errors
const (
	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrNotificationNotFound indicates that a notification id did not match any of the user's notifications.
	ErrNotificationNotFound = 2301
)

// 3xxx: Session Errors
const (
	// ErrNotRegistered indicates that an event requiring an identity arrived before register.
	ErrNotRegistered = 3001

	// ErrAlreadyRegistered indicates that a connection tried to bind a second, different identity.
	ErrAlreadyRegistered = 3002

	// ErrSessionKicked indicates that the connection was replaced by a newer one for the same identity.
	ErrSessionKicked = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrMessageSendFailed indicates that persisting a chat message failed.
	ErrMessageSendFailed = 5101

	// ErrHistoryUnavailable indicates that reading stored messages failed.
	ErrHistoryUnavailable = 5102

	// ErrStoreTimeout indicates that the message store did not answer within the store timeout.
	ErrStoreTimeout = 5103
)
