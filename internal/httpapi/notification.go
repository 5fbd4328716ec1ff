package httpapi

import (
	"net/http"

	"github.com/example/printshop/api-go/internal/model"
)

type createNotificationRequest struct {
	Kind      string `json:"kind" validate:"required"`
	Recipient string `json:"recipient"`
	Message   string `json:"message" validate:"required"`
}

func (s Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	var req createNotificationRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	n, err := s.Store.CreateNotification(r.Context(), model.Notification{
		JobID:     jobID,
		Kind:      req.Kind,
		Recipient: req.Recipient,
		Message:   req.Message,
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	notifications, err := s.Store.ListNotifications(r.Context(), jobID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}
