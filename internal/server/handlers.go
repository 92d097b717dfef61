package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/notakey/pushmfa/internal/onboarding"
	"github.com/notakey/pushmfa/internal/session"
)

type handlers struct {
	sessions   Sessions
	onboarding Onboarding
	logger     *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type createAuthRequest struct {
	Username string `json:"username"`
}

type createAuthResponse struct {
	UUID string `json:"uuid"`
}

// createAuth issues a push authentication request for a user. The
// host calls this when its login form is submitted with a valid first
// factor.
func (h *handlers) createAuth(w http.ResponseWriter, r *http.Request) {
	var req createAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	id, err := h.sessions.Create(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("auth request creation failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "auth request creation failed")

		return
	}

	writeJSON(w, http.StatusOK, createAuthResponse{UUID: id})
}

type authStatusResponse struct {
	Status     session.Status `json:"status"`
	StatusText string         `json:"status_text"`
}

// authStatus answers the host's polling loop. A malformed uuid is
// answered with status 0 without touching the NAS, matching what the
// remote lookup would conclude.
func (h *handlers) authStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("uuid")

	st := session.StatusNone
	if uuid.Validate(id) == nil {
		st = h.sessions.Status(r.Context(), id)
	}

	writeJSON(w, http.StatusOK, authStatusResponse{Status: st, StatusText: st.String()})
}

type validateAuthRequest struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

type validateAuthResponse struct {
	Authenticated bool `json:"authenticated"`
}

// validateAuth is the final credential check at login submission.
func (h *handlers) validateAuth(w http.ResponseWriter, r *http.Request) {
	var req validateAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok := h.sessions.IsAuthenticated(r.Context(), req.Username, req.UUID)

	writeJSON(w, http.StatusOK, validateAuthResponse{Authenticated: ok})
}

// onboardingOverview reports a user's onboarding status with whatever
// the current phase needs: QR payload and provisioning details while
// started, device list when done.
func (h *handlers) onboardingOverview(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	ov, err := h.onboarding.Overview(r.Context(), username)
	if err != nil {
		h.logger.Error("onboarding overview failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "onboarding lookup failed")

		return
	}

	writeJSON(w, http.StatusOK, ov)
}

type onboardingActionRequest struct {
	Action   string   `json:"action"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Groups   []string `json:"groups"`
	Secret   string   `json:"secret"`
}

// onboardingApply performs a start, update, or reset for a user.
func (h *handlers) onboardingApply(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var req onboardingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := onboarding.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := onboarding.Profile{
		Username: username,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Groups:   req.Groups,
		Secret:   req.Secret,
	}

	if err := h.onboarding.Apply(r.Context(), action, p); err != nil {
		h.logger.Error("onboarding action failed",
			slog.String("username", username),
			slog.String("action", req.Action),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "onboarding action failed")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type userAvailableResponse struct {
	Available bool `json:"available"`
}

// userAvailable reports whether the push factor can be offered to a
// user at login.
func (h *handlers) userAvailable(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	ok := h.onboarding.IsAvailableForUser(r.Context(), username)

	writeJSON(w, http.StatusOK, userAvailableResponse{Available: ok})
}

type deleteUserResponse struct {
	Deleted bool `json:"deleted"`
}

// deleteUser removes a user remotely and locally, called when the host
// deletes the account.
func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	deleted, err := h.onboarding.DeleteUser(r.Context(), username)
	if err != nil {
		h.logger.Error("user deletion failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "user deletion failed")

		return
	}

	writeJSON(w, http.StatusOK, deleteUserResponse{Deleted: deleted})
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
