package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketchat/internal/pkg/errs"
)

func TestRespondSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	RespondSuccess(w, r, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.Equal(t, map[string]any{"status": "ok"}, body.Data)
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tickets/1/messages", nil)

	RespondError(w, r, errs.NewError(errs.ErrHistoryUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errs.ErrHistoryUnavailable, body.Code)
	assert.Nil(t, body.Data)
}

func TestRespondErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
