package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tally/cmd/internal/commitment"
	"tally/cmd/internal/feedback"
	"tally/cmd/internal/milestone"
)

const feedbackReflectionCount = 10

func (h *Handler) handleMilestoneCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req milestoneCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	c, err := h.deps.Commitments.Get(ctx, req.CommitmentID, p.User.ID)
	if err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "commitment not found")
			return
		}
		h.log.Error("api.milestones.commitment.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// The threshold must actually be crossed before it can be completed.
	total, err := h.deps.Logs.SumMinutesForCommitment(ctx, c.ID)
	if err != nil {
		h.log.Error("api.milestones.sum.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if total/60 < req.HoursThreshold {
		writeError(w, http.StatusBadRequest, "threshold_not_reached", "not enough hours logged for this milestone")
		return
	}

	m, err := milestone.New(c.ID, req.HoursThreshold, req.Synthesis, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid milestone")
		return
	}

	if err := h.deps.Milestones.Create(ctx, m); err != nil {
		if errors.Is(err, milestone.ErrExists) {
			writeError(w, http.StatusConflict, "milestone_exists", "milestone already completed for this threshold")
			return
		}
		h.log.Error("api.milestones.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// Feedback is best effort here. The milestone stands either way; a failed
	// generation just leaves ai_feedback empty.
	if text, err := h.generateFeedback(r, c, m); err != nil {
		if !errors.Is(err, feedback.ErrUnavailable) {
			h.log.Warn("api.milestones.feedback.fail", "err", err, "milestone_id", m.ID)
		}
	} else if err := h.deps.Milestones.SetFeedback(ctx, m.ID, text); err != nil {
		h.log.Error("api.milestones.feedback.store.fail", "err", err, "milestone_id", m.ID)
	} else {
		m.AIFeedback = &text
	}

	writeJSON(w, http.StatusCreated, toMilestoneResponse(m))
}

func (h *Handler) handleMilestoneGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	m, err := h.deps.Milestones.Get(r.Context(), r.PathValue("id"), p.User.ID)
	if err != nil {
		if errors.Is(err, milestone.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "milestone not found")
			return
		}
		h.log.Error("api.milestones.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}

func (h *Handler) handleMilestoneUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req milestoneUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	synthesis := strings.TrimSpace(req.Synthesis)
	if synthesis == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "synthesis is required")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.deps.Milestones.UpdateSynthesis(ctx, id, p.User.ID, synthesis); err != nil {
		if errors.Is(err, milestone.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "milestone not found")
			return
		}
		h.log.Error("api.milestones.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	m, err := h.deps.Milestones.Get(ctx, id, p.User.ID)
	if err != nil {
		h.log.Error("api.milestones.reload.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}

// handleMilestoneFeedback regenerates coach feedback on demand. Unlike the
// create path, a generation failure is reported to the caller.
func (h *Handler) handleMilestoneFeedback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	m, err := h.deps.Milestones.Get(ctx, id, p.User.ID)
	if err != nil {
		if errors.Is(err, milestone.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "milestone not found")
			return
		}
		h.log.Error("api.milestones.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	c, err := h.deps.Commitments.Get(ctx, m.CommitmentID, p.User.ID)
	if err != nil {
		h.log.Error("api.milestones.commitment.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	text, err := h.generateFeedback(r, c, m)
	if err != nil {
		if errors.Is(err, feedback.ErrUnavailable) {
			writeError(w, http.StatusBadGateway, "feedback_unavailable", "feedback generation is unavailable")
			return
		}
		h.log.Error("api.milestones.feedback.fail", "err", err, "milestone_id", m.ID)
		writeError(w, http.StatusBadGateway, "feedback_failed", "feedback generation failed")
		return
	}

	if err := h.deps.Milestones.SetFeedback(ctx, m.ID, text); err != nil {
		h.log.Error("api.milestones.feedback.store.fail", "err", err, "milestone_id", m.ID)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	m.AIFeedback = &text
	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}

func (h *Handler) generateFeedback(r *http.Request, c commitment.Commitment, m milestone.Milestone) (string, error) {
	reflections, err := h.deps.Logs.RecentReflections(r.Context(), c.ID, feedbackReflectionCount)
	if err != nil {
		return "", err
	}

	return h.deps.Feedback.Generate(r.Context(), feedback.Params{
		CommitmentTitle:   c.Title,
		Category:          c.Category,
		GoalHours:         c.GoalHours,
		HoursThreshold:    m.HoursThreshold,
		UserSynthesis:     m.UserSynthesis,
		RecentReflections: reflections,
	})
}
