/*
Package handler provides HTTP handler functions for creating and reading notifications.

Notifications created here follow the same path as the WebSocket sendNotification and
sendBroadcastNotification events: they are recorded in the ledger and pushed to live connections.
*/
package handler

import (
	"net/http"

	"ticketchat/internal/app/user"
	"ticketchat/internal/pkg/errs"
	"ticketchat/internal/pkg/req"
	"ticketchat/internal/pkg/resp"
)

type CreateNotificationInput struct {
	ToUserID user.ID  `json:"toUserId"`
	Type     string   `json:"type"`
	Message  req.Text `json:"message"`
	Data     any      `json:"data,omitempty"`
}

type BroadcastNotificationInput struct {
	Type    string   `json:"type"`
	Message req.Text `json:"message"`
	Data    any      `json:"data,omitempty"`
}

// HandleUserNotifications returns the notification status of a user.
func HandleUserNotifications(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := user.ID(pathParam(r, "userId"))
		if userID.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "user"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userId": userID,
			"status": deps.Hub.Ledger().StatusSnapshot(userID),
		})
	}
}

// HandleMarkNotificationRead marks one of the user's notifications as read.
func HandleMarkNotificationRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := user.ID(pathParam(r, "userId"))
		notificationID := pathParam(r, "notificationId")
		if userID.IsZero() || notificationID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "notification"))
			return
		}

		ledger := deps.Hub.Ledger()
		if !ledger.MarkRead(userID, notificationID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotificationNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userId":         userID,
			"notificationId": notificationID,
			"unreadCount":    ledger.UnreadCount(userID),
		})
	}
}

// HandleCreateNotification records a notification for one user and pushes it if they are online.
func HandleCreateNotification(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateNotificationInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ToUserID.IsZero() || input.Type == "" || input.Message == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "notification"))
			return
		}

		n, delivered := deps.Hub.NotifyUser(input.ToUserID, input.Type, input.Message.String(), input.Data)

		resp.RespondStatus(w, r, http.StatusCreated, map[string]any{
			"notification": n,
			"delivered":    delivered,
		})
	}
}

// HandleBroadcastNotification records a notification for every known user and pushes it to
// every open connection.
func HandleBroadcastNotification(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input BroadcastNotificationInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Type == "" || input.Message == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingFields, "notification"))
			return
		}

		n, queued := deps.Hub.BroadcastNotification(input.Type, input.Message.String(), input.Data)

		resp.RespondStatus(w, r, http.StatusCreated, map[string]any{
			"notification": n,
			"queued":       queued,
		})
	}
}
