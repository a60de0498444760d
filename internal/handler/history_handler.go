/*
Package handler provides HTTP handler functions for reading stored ticket messages.
*/
package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ticketchat/internal/app/chat"
	"ticketchat/internal/app/db"
	"ticketchat/internal/pkg/errs"
	"ticketchat/internal/pkg/resp"
)

// pathParam returns the trimmed URL parameter. chi matches on RawPath when the path carried
// escapes, so only then is the parameter still escaped and in need of unescaping.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(raw); err == nil {
			raw = v
		}
	}
	return strings.TrimSpace(raw)
}

// storeError maps a failed store read to a client error, telling timeouts apart.
func storeError(r *http.Request, err error, msg string) *errs.CustomError {
	timeout := db.IsTimeout(err)
	zerolog.Ctx(r.Context()).Error().Err(err).Bool("timeout", timeout).Str("path", r.URL.Path).Msg(msg)
	if timeout {
		return errs.NewError(errs.ErrStoreTimeout)
	}
	return errs.NewError(errs.ErrHistoryUnavailable)
}

func (d *AppDeps) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := chat.DefaultStoreTimeout
	if d.Config != nil && d.Config.StoreTimeout > 0 {
		timeout = d.Config.StoreTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

// HandleTicketMessages returns the full conversation of a ticket, oldest first.
func HandleTicketMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID := pathParam(r, "ticketId")
		storageID := chat.StorageTicketID(ticketID)
		if storageID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "ticket"))
			return
		}

		ctx, cancel := deps.storeContext(r)
		defer cancel()

		msgs, err := deps.Store.GetConversation(ctx, storageID)
		if err != nil {
			resp.RespondError(w, r, storeError(r, err, "Failed to load conversation"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"ticketId": ticketID,
			"messages": msgs,
		})
	}
}

// HandleLatestByTicket returns the latest message of each ticket the user took part in.
func HandleLatestByTicket(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := pathParam(r, "userId")
		if userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "user"))
			return
		}

		ctx, cancel := deps.storeContext(r)
		defer cancel()

		msgs, err := deps.Store.GetLastMessagesByTicket(ctx, userID)
		if err != nil {
			resp.RespondError(w, r, storeError(r, err, "Failed to load latest messages"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userId":   userID,
			"messages": msgs,
		})
	}
}

// HandleSendersToAdmin lists the users who have messaged an admin.
func HandleSendersToAdmin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := pathParam(r, "adminId")
		if adminID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "admin"))
			return
		}

		ctx, cancel := deps.storeContext(r)
		defer cancel()

		senders, err := deps.Store.GetAllSendersToAdmin(ctx, adminID)
		if err != nil {
			resp.RespondError(w, r, storeError(r, err, "Failed to load senders"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"adminId": adminID,
			"senders": senders,
		})
	}
}

// HandleLatestToAdmin returns the latest message each sender wrote to an admin.
func HandleLatestToAdmin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := pathParam(r, "adminId")
		if adminID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "admin"))
			return
		}

		ctx, cancel := deps.storeContext(r)
		defer cancel()

		msgs, err := deps.Store.GetLastMessagesToAdmin(ctx, adminID)
		if err != nil {
			resp.RespondError(w, r, storeError(r, err, "Failed to load admin inbox"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"adminId":  adminID,
			"messages": msgs,
		})
	}
}
