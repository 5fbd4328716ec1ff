package httpapi

import (
	"net/http"

	"github.com/example/printshop/api-go/internal/model"
)

type createItemRequest struct {
	Name                 string `json:"name" validate:"required"`
	Quantity             int    `json:"quantity" validate:"required,min=1"`
	EstimatedTimePerItem int    `json:"estimatedTimePerItem" validate:"omitempty,min=0"`
	CompletedQuantity    int    `json:"completedQuantity" validate:"omitempty,min=0"`
	Material             string `json:"material"`
	Notes                string `json:"notes"`
	Status               string `json:"status"`
}

type updateItemRequest struct {
	Name                 *string `json:"name" validate:"omitempty,min=1"`
	Quantity             *int    `json:"quantity" validate:"omitempty,min=1"`
	EstimatedTimePerItem *int    `json:"estimatedTimePerItem" validate:"omitempty,min=0"`
	CompletedQuantity    *int    `json:"completedQuantity" validate:"omitempty,min=0"`
	Material             *string `json:"material"`
	Notes                *string `json:"notes"`
	Status               *string `json:"status"`
}

// itemResponse carries the mutated item together with the re-derived parent
// job, so clients observe the recompute result without a second request.
type itemResponse struct {
	Item model.JobItem `json:"item"`
	Job  model.Job     `json:"job"`
}

func (s Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	var req createItemRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	item, job, err := s.Store.CreateItem(r.Context(), model.JobItem{
		JobID:                jobID,
		Name:                 req.Name,
		Quantity:             req.Quantity,
		EstimatedTimePerItem: req.EstimatedTimePerItem,
		CompletedQuantity:    req.CompletedQuantity,
		Material:             req.Material,
		Notes:                req.Notes,
		Status:               req.Status,
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponse{Item: item, Job: job})
}

func (s Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.Store.ListItems(r.Context(), jobID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []model.JobItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	var req updateItemRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	item, job, err := s.Store.UpdateItem(r.Context(), id, model.ItemPatch{
		Name:                 req.Name,
		Quantity:             req.Quantity,
		EstimatedTimePerItem: req.EstimatedTimePerItem,
		CompletedQuantity:    req.CompletedQuantity,
		Material:             req.Material,
		Notes:                req.Notes,
		Status:               req.Status,
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Item: item, Job: job})
}

func (s Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	job, err := s.Store.DeleteItem(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}
