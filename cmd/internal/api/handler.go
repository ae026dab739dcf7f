// Package api exposes tally's HTTP surface: account management, commitments,
// time logs, and milestones. All mutating endpoints ride on the session
// cookie; WithSession resolves it once per request.
package api

import (
	"log/slog"
	"net/http"

	"tally/cmd/identity"
	"tally/cmd/internal/auth/session"
	"tally/cmd/internal/commitment"
	"tally/cmd/internal/feedback"
	"tally/cmd/internal/milestone"
	"tally/cmd/internal/timelog"
)

// Deps bundles everything the handler needs. All fields are required except
// Feedback, which defaults to the no-op generator.
type Deps struct {
	Users       identity.Store
	Sessions    *session.Service
	Commitments commitment.Store
	Logs        timelog.Store
	Milestones  milestone.Store
	Feedback    feedback.Generator
}

// Handler wires the HTTP endpoints to the domain stores.
type Handler struct {
	log  *slog.Logger
	cfg  Config
	deps Deps

	// dummyHash is verified against when login hits an unknown username, so
	// the miss takes as long as a bad password.
	dummyHash string
}

// NewHandler constructs the API handler.
func NewHandler(log *slog.Logger, cfg Config, deps Deps) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if deps.Feedback == nil {
		deps.Feedback = feedback.Noop{}
	}

	h := &Handler{
		log:  log,
		cfg:  cfg,
		deps: deps,
	}

	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires all routes onto the provided mux. The mux is expected to be
// wrapped in WithSession so handlers can read the request principal.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}

	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
	mux.HandleFunc("POST /auth/password", h.handlePasswordChange)
	mux.HandleFunc("POST /auth/account/delete", h.handleAccountDelete)
	mux.HandleFunc("GET /me", h.handleMe)

	mux.HandleFunc("GET /commitments", h.handleCommitmentList)
	mux.HandleFunc("POST /commitments", h.handleCommitmentCreate)
	mux.HandleFunc("GET /commitments/{id}", h.handleCommitmentDetail)
	mux.HandleFunc("PUT /commitments/{id}", h.handleCommitmentUpdate)
	mux.HandleFunc("DELETE /commitments/{id}", h.handleCommitmentDelete)

	mux.HandleFunc("GET /logs", h.handleLogList)
	mux.HandleFunc("POST /logs", h.handleLogCreate)
	mux.HandleFunc("GET /logs/{id}", h.handleLogGet)
	mux.HandleFunc("PUT /logs/{id}", h.handleLogUpdate)
	mux.HandleFunc("DELETE /logs/{id}", h.handleLogDelete)

	mux.HandleFunc("POST /milestones", h.handleMilestoneCreate)
	mux.HandleFunc("GET /milestones/{id}", h.handleMilestoneGet)
	mux.HandleFunc("PUT /milestones/{id}", h.handleMilestoneUpdate)
	mux.HandleFunc("POST /milestones/{id}/feedback", h.handleMilestoneFeedback)
}
