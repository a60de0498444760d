/*
Package randx provides identifiers for connections and other per-process entities.
*/
package randx

import (
	"strings"

	"github.com/google/uuid"
)

// SessionIDPrefix marks identifiers issued to WebSocket connections.
const SessionIDPrefix = "sess_"

// SessionID returns a random identifier for a WebSocket connection, used for log
// correlation only. It is never a user identity.
func SessionID() string {
	return SessionIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsSessionID reports whether id looks like a value produced by SessionID.
func IsSessionID(id string) bool {
	raw, ok := strings.CutPrefix(id, SessionIDPrefix)
	if !ok || len(raw) != 32 {
		return false
	}

	_, err := uuid.Parse(raw)
	return err == nil
}
