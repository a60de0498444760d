/*
Package req provides helper functions for request parsing and data binding.

It covers JSON bodies of REST requests and the payloads of WebSocket events, which clients
may send either as a JSON object or as a string holding encoded JSON.
*/
package req

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ticketchat/internal/pkg/errs"
)

// MaxBodyBytes caps the size of REST request bodies.
const MaxBodyBytes int64 = 64 << 10

// ErrMalformedPayload is returned by DecodePayload when the payload is not valid JSON
// for the destination type.
var ErrMalformedPayload = errors.New("malformed payload")

// BindJSON binds the JSON request body to dst.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidPayload)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// DecodePayload decodes an event payload into dst. The payload may be a JSON value or a
// JSON string whose contents are themselves JSON. An absent, null or empty payload leaves
// dst untouched.
func DecodePayload(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}

		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil
		}
		raw = []byte(encoded)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return nil
}

// LooseString is a string field that also accepts JSON numbers, which are kept in their
// literal decimal form. Clients send user and ticket ids either way.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(strings.TrimSpace(str))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}

	*s = LooseString(num.String())
	return nil
}

// String returns the plain string value.
func (s LooseString) String() string {
	return string(s)
}

// Text is a free-text field. Strings are kept verbatim; JSON numbers and booleans are
// accepted and kept in their literal form. Objects and arrays are rejected.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = Text(str)
		return nil
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*t = Text(data)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected text, got %s", data)
	}

	*t = Text(num.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}
