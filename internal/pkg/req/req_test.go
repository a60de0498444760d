package req

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketchat/internal/pkg/errs"
)

type samplePayload struct {
	UserID   LooseString `json:"userId"`
	TicketID LooseString `json:"ticketId"`
	Message  string      `json:"message"`
}

func TestDecodePayloadObject(t *testing.T) {
	var p samplePayload
	require.NoError(t, DecodePayload(json.RawMessage(`{"userId":"u1","ticketId":"#7","message":"hi"}`), &p))

	assert.Equal(t, LooseString("u1"), p.UserID)
	assert.Equal(t, LooseString("#7"), p.TicketID)
	assert.Equal(t, "hi", p.Message)
}

func TestDecodePayloadEncodedString(t *testing.T) {
	var p samplePayload
	raw := json.RawMessage(`"{\"userId\":42,\"ticketId\":7}"`)
	require.NoError(t, DecodePayload(raw, &p))

	assert.Equal(t, LooseString("42"), p.UserID)
	assert.Equal(t, LooseString("7"), p.TicketID)
}

func TestDecodePayloadEmpty(t *testing.T) {
	for _, raw := range []string{``, `null`, `""`, `  `} {
		p := samplePayload{Message: "keep"}
		require.NoError(t, DecodePayload(json.RawMessage(raw), &p), raw)
		assert.Equal(t, "keep", p.Message)
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	var p samplePayload

	err := DecodePayload(json.RawMessage(`"{not json"`), &p)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	err = DecodePayload(json.RawMessage(`{"userId":true}`), &p)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	err = DecodePayload(json.RawMessage(`[1,2]`), &p)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestLooseStringTrimsAndAcceptsNull(t *testing.T) {
	var p samplePayload
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"  admin ","ticketId":null}`), &p))
	assert.Equal(t, "admin", p.UserID.String())
	assert.Empty(t, p.TicketID)
}

func TestBindJSON(t *testing.T) {
	var dst struct {
		Type string `json:"type"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"info"}`))
	r.Header.Set("Content-Type", "application/json")
	assert.Nil(t, BindJSON(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, "info", dst.Type)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"info"}`))
	r.Header.Set("Content-Type", "text/plain")
	assert.Equal(t, errs.ErrUnsupportedMediaType, BindJSON(httptest.NewRecorder(), r, &dst).Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"info","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	assert.Equal(t, errs.ErrInvalidPayload, BindJSON(httptest.NewRecorder(), r, &dst).Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"a"}{"type":"b"}`))
	r.Header.Set("Content-Type", "application/json")
	assert.Equal(t, errs.ErrExtraContentInBody, BindJSON(httptest.NewRecorder(), r, &dst).Code)
}

func TestTextAcceptsScalars(t *testing.T) {
	var p struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
		D Text `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"  padded  ","b":123,"c":true,"d":null}`), &p))

	assert.Equal(t, Text("  padded  "), p.A)
	assert.Equal(t, Text("123"), p.B)
	assert.Equal(t, Text("true"), p.C)
	assert.Equal(t, Text(""), p.D)

	var bad struct {
		A Text `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a":{"x":1}}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"a":[1]}`), &bad))
}
