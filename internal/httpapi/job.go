package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/printshop/api-go/internal/model"
)

type createJobRequest struct {
	CustomerID int64      `json:"customerId" validate:"required,min=1"`
	Priority   string     `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	DueDate    *time.Time `json:"dueDate"`
	Notes      string     `json:"notes"`
}

type updateJobRequest struct {
	CustomerID *int64     `json:"customerId" validate:"omitempty,min=1"`
	Status     *string    `json:"status" validate:"omitempty,oneof=not_started printing paused completed"`
	Priority   *string    `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	DueDate    *time.Time `json:"dueDate"`
	Notes      *string    `json:"notes"`
	ActualTime *int       `json:"actualTime" validate:"omitempty,min=0"`
}

func (s Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	job, err := s.Store.CreateJob(r.Context(), model.Job{
		CustomerID: req.CustomerID,
		Priority:   model.JobPriority(req.Priority),
		DueDate:    req.DueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var status *model.JobStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed := model.JobStatus(raw)
		if !model.ValidJobStatus(parsed) {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status: %s", raw))
			return
		}
		status = &parsed
	}

	limit := 25
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", raw))
			return
		}
		if value > 100 {
			value = 100
		}
		limit = value
	}

	jobs, err := s.Store.ListJobs(r.Context(), status, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	job, err := s.Store.GetJob(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleGetJobDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	details, err := s.Store.GetJobWithDetails(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if details.Items == nil {
		details.Items = []model.JobItem{}
	}
	writeJSON(w, http.StatusOK, details)
}

func (s Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	var req updateJobRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	patch := model.JobPatch{
		CustomerID: req.CustomerID,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		ActualTime: req.ActualTime,
	}
	if req.Status != nil {
		status := model.JobStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.JobPriority(*req.Priority)
		patch.Priority = &priority
	}
	job, err := s.Store.UpdateJob(r.Context(), id, patch)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Store.DeleteJob(r.Context(), id); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
