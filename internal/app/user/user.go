/*
Package user defines the identity a client asserts for itself when it registers.

Identities are not authenticated. They key both the live connection registry and the
notification ledger.
*/
package user

import (
	"encoding/json"

	"ticketchat/internal/pkg/req"
)

// Broadcast is the pseudo-identity carried by the template of a broadcast notification.
const Broadcast ID = "broadcast"

// ID is a client-asserted user identity. On the wire it may be a JSON string or number;
// numbers are kept in their decimal text form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s req.LooseString
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// IsZero reports whether no identity is set.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}
