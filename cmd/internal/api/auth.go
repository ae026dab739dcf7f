package api

import (
	"net/http"
	"strings"
	"time"

	"tally/cmd/identity"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.deps.Users.CreateUser(ctx, identity.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Now:      now,
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "username_taken", "username already exists")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid username or password")
		default:
			h.log.Error("api.register.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	if err := h.startSession(w, r, now, u.ID); err != nil {
		h.log.Error("api.register.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, meResponse{User: toUserResponse(u)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	password := strings.TrimSpace(req.Password)
	if strings.TrimSpace(req.Username) == "" || password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	creds, err := h.deps.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			// Timing resistance: perform a dummy verify when user is missing.
			if h.dummyHash != "" {
				_, _ = identity.VerifyPassword(password, h.dummyHash)
			}
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.log.Error("api.login.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	okPw, err := identity.VerifyPassword(password, creds.PasswordHash)
	if err != nil || !okPw {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	if err := h.startSession(w, r, now, creds.User.ID); err != nil {
		h.log.Error("api.login.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUserResponse(creds.User)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.deps.Sessions.Invalidate(r.Context(), p.Session.ID); err != nil {
		h.log.Error("api.logout.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.deps.Sessions.Config().DeleteTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	u, err := h.deps.Users.GetByID(r.Context(), p.User.ID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "not_authenticated", "user not found")
			return
		}
		h.log.Error("api.me.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUserResponse(u)})
}

func (h *Handler) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req passwordChangeRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	if !h.verifyCurrentPassword(w, r, p.User.ID, req.CurrentPassword) {
		return
	}

	newHash, err := identity.HashPassword(req.NewPassword)
	if err != nil {
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_request", "new password does not meet the policy")
			return
		}
		h.log.Error("api.password.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	if err := h.deps.Users.UpdatePassword(ctx, p.User.ID, newHash, now); err != nil {
		h.log.Error("api.password.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// Sign out every other device; the session that made the change stays.
	if err := h.deps.Sessions.InvalidateAllOther(ctx, p.User.ID, p.Session.ID); err != nil {
		h.log.Error("api.password.invalidate.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req accountDeleteRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()

	if !h.verifyCurrentPassword(w, r, p.User.ID, req.Password) {
		return
	}

	if err := h.deps.Sessions.InvalidateAll(ctx, p.User.ID); err != nil {
		h.log.Error("api.account_delete.sessions.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if err := h.deps.Users.DeleteUser(ctx, p.User.ID); err != nil {
		h.log.Error("api.account_delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.deps.Sessions.Config().DeleteTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// startSession issues a fresh token, persists the session, and sets the cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, now time.Time, userID string) error {
	tokenPlain, err := h.deps.Sessions.NewToken()
	if err != nil {
		return err
	}
	sess, err := h.deps.Sessions.Create(r.Context(), now, tokenPlain, userID)
	if err != nil {
		return err
	}
	h.deps.Sessions.Config().SetTokenCookie(w, tokenPlain, sess.ExpiresAt)
	return nil
}

// verifyCurrentPassword re-authenticates for sensitive operations. Writes the
// error response itself and reports whether the caller may proceed.
func (h *Handler) verifyCurrentPassword(w http.ResponseWriter, r *http.Request, userID, password string) bool {
	creds, err := h.deps.Users.GetCredentials(r.Context(), userID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "not_authenticated", "user not found")
			return false
		}
		h.log.Error("api.verify_password.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return false
	}

	okPw, err := identity.VerifyPassword(strings.TrimSpace(password), creds.PasswordHash)
	if err != nil || !okPw {
		writeError(w, http.StatusForbidden, "invalid_password", "current password is incorrect")
		return false
	}
	return true
}
