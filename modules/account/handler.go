package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
)

// Handler serves the account API on top of auth.Service.
type Handler struct {
	svc      *auth.Service
	messages *Catalog
	log      *slog.Logger
}

type emailRequest struct {
	Email string `json:"email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type roleRequest struct {
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Role   auth.Role  `json:"role"`
}

type resetLinkResponse struct {
	TokenB string `json:"token_b"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusCreated, "registered", u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Sessions are stateless; the client drops its tokens.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.success(w, http.StatusOK, "logged_out", nil)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Activate(r.Context(), chi.URLParam(r, "token_a"), chi.URLParam(r, "token_b"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "activated", u)
}

func (h *Handler) resendActivation(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	err := h.svc.ResendActivation(r.Context(), in.Email)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "activation_sent", nil)
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), in.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "reset_sent", nil)
}

func (h *Handler) checkResetLink(w http.ResponseWriter, r *http.Request) {
	tokenB, err := h.svc.CheckResetLink(r.Context(), chi.URLParam(r, "token_a"), chi.URLParam(r, "token_b"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "reset_link_valid", resetLinkResponse{TokenB: tokenB})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var in auth.PasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), chi.URLParam(r, "token_b"), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "password_changed", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, err := subject(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	actor, err := subject(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var in roleRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	target := actor
	if in.UserID != nil {
		target = *in.UserID
	}

	u, err := h.svc.ChangeRole(r.Context(), actor, target, in.Role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, http.StatusOK, "role_changed", u)
}

func subject(r *http.Request) (uuid.UUID, error) {
	claims, ok := jwt.GetClaims(r.Context())
	if !ok {
		return uuid.Nil, jwt.ErrMissingToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, jwt.ErrInvalidToken
	}
	return id, nil
}
