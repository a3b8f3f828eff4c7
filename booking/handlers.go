// Package booking exposes the scheduling engine over HTTP and pushes
// assignment events to open booking editors.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"studioerp/assign"
	"studioerp/conflict"
	"studioerp/models"
	"studioerp/utils"

	"github.com/julienschmidt/httprouter"
)

// Scheduler is the part of the engine the handlers drive.
type Scheduler interface {
	AutoAssignTasks(ctx context.Context, call assign.Call) (*assign.Result, error)
	Preview(ctx context.Context, call assign.Call) (*assign.Result, error)
	SkipTask(ctx context.Context, taskID, reason, skippedBy string) (assign.SkipResult, error)
}

// Records reads bookings and their stored tasks.
type Records interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListTasks(ctx context.Context, bookingID string) ([]models.Task, error)
}

type Handlers struct {
	engine  Scheduler
	records Records
}

func NewHandlers(engine Scheduler, records Records) *Handlers {
	return &Handlers{engine: engine, records: records}
}

// authorize checks that the caller's branch, when the token carries one,
// owns the booking.
func (h *Handlers) authorize(ctx context.Context, call assign.Call) error {
	booking, err := h.records.GetBooking(ctx, call.BookingID)
	if err != nil {
		return fmt.Errorf("loading booking %s: %w", call.BookingID, err)
	}
	if call.Branch != "" && booking.Branch != call.Branch {
		return fmt.Errorf("booking %s: %w", booking.ID, assign.ErrBranchMismatch)
	}
	return nil
}

func callFrom(r *http.Request, ps httprouter.Params) assign.Call {
	return assign.Call{
		BookingID: ps.ByName("id"),
		Branch:    utils.GetBranchFromRequest(r),
		Actor:     utils.GetUserIDFromRequest(r),
	}
}

// respondWithEngineError maps engine errors onto status codes.
func respondWithEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assign.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, assign.ErrBranchMismatch):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("[Booking] request failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// POST /api/bookings/:id/autoassign
func (h *Handlers) AutoAssign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.engine.AutoAssignTasks(r.Context(), callFrom(r, ps))
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/bookings/:id/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.authorize(r.Context(), callFrom(r, ps)); err != nil {
		respondWithEngineError(w, err)
		return
	}
	list, err := h.records.ListTasks(r.Context(), ps.ByName("id"))
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	if list == nil {
		list = []models.Task{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookingId": ps.ByName("id"), "tasks": list})
}

// GET /api/bookings/:id/availability
func (h *Handlers) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.engine.Preview(r.Context(), callFrom(r, ps))
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// Watch guards the booking's websocket with the same branch check.
// GET /ws/bookings/:id
func (h *Handlers) Watch(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := h.authorize(r.Context(), callFrom(r, ps)); err != nil {
			respondWithEngineError(w, err)
			return
		}
		hub.HandleWS(w, r, ps)
	}
}

type skipRequest struct {
	Reason string `json:"reason"`
}

// POST /api/tasks/:id/skip
func (h *Handlers) SkipTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "reason is required")
		return
	}
	actor := utils.GetUserIDFromRequest(r)
	if actor == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unknown actor")
		return
	}

	res, err := h.engine.SkipTask(r.Context(), ps.ByName("id"), req.Reason, actor)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	utils.RespondWithJSON(w, status, res)
}

type conflictRequest struct {
	conflict.Draft
	EditingIndex *int `json:"editingIndex,omitempty"`
}

type conflictResponse struct {
	Conflicts []conflict.Conflict           `json:"conflicts"`
	Disabled  map[string][]conflict.Blocker `json:"disabled,omitempty"`
}

// POST /api/conflicts/check
func (h *Handlers) CheckConflicts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req conflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp := conflictResponse{Conflicts: conflict.FindConflicts(req.Draft)}
	if resp.Conflicts == nil {
		resp.Conflicts = []conflict.Conflict{}
	}
	if req.EditingIndex != nil {
		if *req.EditingIndex < 0 || *req.EditingIndex >= len(req.Entries) {
			utils.RespondWithError(w, http.StatusBadRequest, "editingIndex out of range")
			return
		}
		resp.Disabled = conflict.DisabledResources(req.Draft, *req.EditingIndex)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
