package rest

import (
	"net/http"

	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.svc.Register(r.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toAuthResponse(session))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.svc.Login(r.Context(), account.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAuthResponse(session))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserJSON(user))
}

func toAuthResponse(session service.Session) authResponse {
	return authResponse{AccessToken: session.AccessToken, User: toUserJSON(session.User)}
}
