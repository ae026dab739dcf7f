package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tally/cmd/internal/commitment"
	"tally/cmd/internal/milestone"
)

func (h *Handler) handleCommitmentList(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.deps.Commitments.ListWithProgress(r.Context(), p.User.ID)
	if err != nil {
		h.log.Error("api.commitments.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	out := make([]commitmentProgressResponse, 0, len(list))
	for _, c := range list {
		out = append(out, commitmentProgressResponse{
			commitmentResponse: toCommitmentResponse(c.Commitment),
			TotalMinutes:       c.TotalMinutes,
		})
	}
	writeJSON(w, http.StatusOK, commitmentListResponse{Commitments: out})
}

func (h *Handler) handleCommitmentCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req commitmentCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	c, err := commitment.New(p.User.ID, req.Title, req.Category, req.GoalHours, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid commitment")
		return
	}

	if err := h.deps.Commitments.Create(r.Context(), c); err != nil {
		h.log.Error("api.commitments.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toCommitmentResponse(c))
}

func (h *Handler) handleCommitmentDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	c, err := h.deps.Commitments.Get(ctx, id, p.User.ID)
	if err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.commitments.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	logs, err := h.deps.Logs.ListForCommitment(ctx, c.ID)
	if err != nil {
		h.log.Error("api.commitments.logs.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	milestones, err := h.deps.Milestones.ListForCommitment(ctx, c.ID)
	if err != nil {
		h.log.Error("api.commitments.milestones.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	total := 0
	logOut := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		total += l.DurationMinutes
		logOut = append(logOut, toLogResponse(l))
	}

	completed := make([]int, 0, len(milestones))
	msOut := make([]milestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		completed = append(completed, m.HoursThreshold)
		msOut = append(msOut, toMilestoneResponse(m))
	}

	resp := commitmentDetailResponse{
		Commitment:   toCommitmentResponse(c),
		TotalMinutes: total,
		Logs:         logOut,
		Milestones:   msOut,
	}
	if threshold, pending := milestone.PendingThreshold(total, completed); pending {
		resp.PendingMilestone = &pendingMilestoneResponse{HoursThreshold: threshold}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCommitmentUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req commitmentUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	now := time.Now().UTC()

	c, err := h.deps.Commitments.Get(ctx, id, p.User.ID)
	if err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.commitments.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	title := strings.TrimSpace(req.Title)
	category := req.Category
	if category != nil {
		v := strings.TrimSpace(*category)
		if v == "" {
			category = nil
		} else {
			category = &v
		}
	}
	goalHours := req.GoalHours
	if goalHours == 0 {
		goalHours = c.GoalHours
	}
	if err := commitment.Validate(title, category, goalHours); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid commitment")
		return
	}

	goalChanged := goalHours != c.GoalHours

	c.Title = title
	c.Category = category
	c.GoalHours = goalHours
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = now

	if err := h.deps.Commitments.Update(ctx, c); err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.commitments.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// A changed goal redraws the ladder, so completed milestones no longer
	// line up with it. They are cleared rather than left misleading.
	if goalChanged {
		if err := h.deps.Milestones.DeleteForCommitment(ctx, c.ID); err != nil {
			h.log.Error("api.commitments.milestones.clear.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
	}

	writeJSON(w, http.StatusOK, toCommitmentResponse(c))
}

func (h *Handler) handleCommitmentDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	err := h.deps.Commitments.Delete(r.Context(), r.PathValue("id"), p.User.ID)
	if err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.commitments.delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
