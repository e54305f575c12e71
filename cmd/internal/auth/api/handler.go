// Package authapi wires HTTP auth endpoints to the session service.
package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"visaslot/cmd/internal/auth/session"
	"visaslot/cmd/internal/auth/token"
	"visaslot/cmd/internal/web"
)

// Handler serves the /auth endpoints.
type Handler struct {
	log          *slog.Logger
	maxBodyBytes int64

	codec    *token.Codec
	sessions *session.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, maxBodyBytes int64, codec *token.Codec, sessions *session.Service) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, maxBodyBytes: maxBodyBytes, codec: codec, sessions: sessions}
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	authed := RequireAuth(h.codec)

	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/refresh-token", h.handleRefresh)
	mux.Handle("POST /auth/logout", authed(http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /auth/profile", authed(http.HandlerFunc(h.handleGetProfile)))
	mux.Handle("PUT /auth/profile", authed(http.HandlerFunc(h.handleUpdateProfile)))
	mux.Handle("PUT /auth/change-password", authed(http.HandlerFunc(h.handleChangePassword)))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		web.ErrorDetails(w, http.StatusBadRequest, "Validation failed", []string{"Email is required"})
		return
	}
	if req.Password == "" {
		web.ErrorDetails(w, http.StatusBadRequest, "Validation failed", []string{"Password is required"})
		return
	}

	res, err := h.sessions.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrDuplicateUser):
			web.ErrorDetails(w, http.StatusBadRequest, "User already exists",
				[]string{"A user with this email already exists"})
		case errors.Is(err, session.ErrWeakPassword):
			web.ErrorDetails(w, http.StatusBadRequest, "Invalid password",
				[]string{"Password must be at least 6 characters long"})
		default:
			h.log.Error("auth.register.fail", "err", err)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusCreated, "User registered successfully", res)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.sessions.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUserNotFound):
			web.ErrorCoded(w, http.StatusNotFound, "User not found", web.CodeUserNotFound)
		case errors.Is(err, session.ErrInvalidCredentials):
			web.Error(w, http.StatusUnauthorized, "Invalid password")
		default:
			h.log.Error("auth.login.fail", "err", err)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Login successful", res)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		web.ErrorCoded(w, http.StatusBadRequest, "Refresh token is required", web.CodeRefreshTokenMissing)
		return
	}

	res, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRefreshExpired):
			web.ErrorCoded(w, http.StatusUnauthorized, "Refresh token has expired", web.CodeRefreshTokenExpired)
		case errors.Is(err, session.ErrRefreshInvalid):
			web.ErrorCoded(w, http.StatusUnauthorized, "Invalid refresh token", web.CodeRefreshTokenInvalid)
		case errors.Is(err, session.ErrRefreshRevoked):
			web.ErrorCoded(w, http.StatusUnauthorized, "Invalid or revoked refresh token", web.CodeRefreshTokenRevoked)
		case errors.Is(err, session.ErrUserNotFound):
			web.ErrorCoded(w, http.StatusUnauthorized, "User not found", web.CodeUserNotFound)
		default:
			h.log.Error("auth.refresh.fail", "err", err)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Token refreshed successfully", res)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req logoutRequest
	if r.ContentLength != 0 {
		if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
			web.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if err := h.sessions.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		web.Unavailable(w)
		return
	}

	web.Data(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	user, err := h.sessions.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			web.ErrorCoded(w, http.StatusNotFound, "User not found", web.CodeUserNotFound)
			return
		}
		h.log.Error("auth.profile.get.fail", "err", err)
		web.Unavailable(w)
		return
	}

	web.Data(w, http.StatusOK, "Profile fetched successfully", user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req updateProfileRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.sessions.UpdateProfile(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			web.ErrorCoded(w, http.StatusNotFound, "User not found", web.CodeUserNotFound)
			return
		}
		h.log.Error("auth.profile.update.fail", "err", err)
		web.Unavailable(w)
		return
	}

	web.Data(w, http.StatusOK, "Profile updated successfully", user)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req changePasswordRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.sessions.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrWeakPassword):
			web.ErrorDetails(w, http.StatusBadRequest, "Invalid password",
				[]string{"New password must be at least 6 characters long"})
		case errors.Is(err, session.ErrInvalidCredentials):
			web.Error(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, session.ErrUserNotFound):
			web.ErrorCoded(w, http.StatusNotFound, "User not found", web.CodeUserNotFound)
		default:
			h.log.Error("auth.change_password.fail", "err", err)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Password changed successfully", nil)
}
