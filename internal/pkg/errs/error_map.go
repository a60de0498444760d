/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
WebSocket error events, HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template corresponding to every application error code.
var errorMap = map[int]CustomError{
	// 1xxx
	ErrMissingFields:        {Code: ErrMissingFields, Message: "Missing %s fields", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidPayload:       {Code: ErrInvalidPayload, Message: "Invalid %s payload", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrUnsupportedEvent:     {Code: ErrUnsupportedEvent, Message: "Unsupported %s event"},

	// 2xxx
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrNotificationNotFound:  {Code: ErrNotificationNotFound, Message: "Notification not found.", Status: http.StatusNotFound},

	// 3xxx
	ErrNotRegistered:     {Code: ErrNotRegistered, Message: "Not registered. Send register first."},
	ErrAlreadyRegistered: {Code: ErrAlreadyRegistered, Message: "Connection is already registered as another user."},
	ErrSessionKicked:     {Code: ErrSessionKicked, Message: "You were signed in from another connection."},

	// 5xxx
	ErrUnknown:            {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrMessageSendFailed:  {Code: ErrMessageSendFailed, Message: "Message send failed", Status: http.StatusInternalServerError},
	ErrHistoryUnavailable: {Code: ErrHistoryUnavailable, Message: "Message history is unavailable.", Status: http.StatusServiceUnavailable},
	ErrStoreTimeout:       {Code: ErrStoreTimeout, Message: "Message store timed out. Please try again.", Status: http.StatusGatewayTimeout},
}
