package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var p struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"u1","b":17,"c":null}`), &p))

	assert.Equal(t, ID("u1"), p.A)
	assert.Equal(t, ID("17"), p.B)
	assert.True(t, p.C.IsZero())
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
}

func TestIDMarshalsAsString(t *testing.T) {
	b, err := json.Marshal(struct {
		UserID ID `json:"userId"`
	}{UserID: "42"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"42"}`, string(b))
}
