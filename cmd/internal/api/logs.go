package api

import (
	"errors"
	"net/http"
	"time"

	"tally/cmd/internal/commitment"
	"tally/cmd/internal/timelog"
)

func (h *Handler) handleLogList(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.deps.Logs.ListForUser(r.Context(), p.User.ID)
	if err != nil {
		h.log.Error("api.logs.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	out := make([]logEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLogEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, logListResponse{Logs: out})
}

func (h *Handler) handleLogCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req logCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	// The commitment must exist and belong to the caller.
	if _, err := h.deps.Commitments.Get(ctx, req.CommitmentID, p.User.ID); err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.logs.commitment.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	l, err := timelog.New(req.CommitmentID, req.Hours, req.Minutes, date, req.Reflection, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid time log")
		return
	}

	if err := h.deps.Logs.Create(ctx, l); err != nil {
		h.log.Error("api.logs.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toLogResponse(l))
}

func (h *Handler) handleLogGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	l, err := h.deps.Logs.Get(r.Context(), r.PathValue("id"), p.User.ID)
	if err != nil {
		if errors.Is(err, timelog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "time log not found")
			return
		}
		h.log.Error("api.logs.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toLogResponse(l))
}

func (h *Handler) handleLogUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req logUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	duration, err := timelog.Duration(req.Hours, req.Minutes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid duration")
		return
	}
	reflection, err := timelog.NormalizeReflection(req.Reflection)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "reflection is required")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.deps.Logs.Update(ctx, id, p.User.ID, duration, date, reflection); err != nil {
		if errors.Is(err, timelog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "time log not found")
			return
		}
		h.log.Error("api.logs.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	l, err := h.deps.Logs.Get(ctx, id, p.User.ID)
	if err != nil {
		h.log.Error("api.logs.reload.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toLogResponse(l))
}

func (h *Handler) handleLogDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	err := h.deps.Logs.Delete(r.Context(), r.PathValue("id"), p.User.ID)
	if err != nil {
		if errors.Is(err, timelog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "time log not found")
			return
		}
		h.log.Error("api.logs.delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
