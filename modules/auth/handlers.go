package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/httpx"
	"github.com/dmitrymomot/authkit/pkg/validator"
	"github.com/dmitrymomot/authkit/svc/auth"
)

type handler struct {
	svc     *auth.Service
	log     *slog.Logger
	limiter func(http.Handler) http.Handler
}

func newHandler(svc *auth.Service, opts ...Option) *handler {
	h := &handler{
		svc: svc,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithLogger sets the module logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *handler) {
		if log != nil {
			h.log = log
		}
	}
}

// userResponse is the public projection of a user. The password hash
// and reset fields never appear here.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.respondError(w, r, err)
		return
	}

	httpx.Message(w, http.StatusOK, "Password reset email sent")
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	token := chi.URLParam(r, "token")
	if err := h.svc.ResetPassword(r.Context(), token, req.Password); err != nil {
		h.respondError(w, r, err)
		return
	}

	httpx.Message(w, http.StatusOK, "Password has been reset")
}

// respondError maps domain errors to the API's status codes. Anything
// unmapped is logged and rendered as the generic 500 body.
func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if ve := validator.Extract(err); ve != nil {
		httpx.ValidationFailed(w, ve.ByField())
		return
	}

	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		httpx.Message(w, http.StatusConflict, "Email is already taken")
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.Message(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrUserNotFound):
		httpx.Message(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrInvalidResetToken):
		httpx.Message(w, http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, auth.ErrNotificationFailed):
		httpx.Message(w, http.StatusBadGateway, "Failed to send notification email")
	default:
		h.log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		httpx.InternalError(w)
	}
}
