package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/httpx"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/rbac"
	"github.com/dmitrymomot/authkit/pkg/upload"
	"github.com/dmitrymomot/authkit/pkg/validator"
	"github.com/dmitrymomot/authkit/svc/auth"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	avatarFormField = "avatar"
	maxAvatarBytes  = 5 << 20
)

type handler struct {
	store   Store
	storage upload.Storage
	log     *slog.Logger
}

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

type listResponse struct {
	Users []userResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultPageLimit),
		Search: r.URL.Query().Get("search"),
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > maxPageLimit {
		params.Limit = defaultPageLimit
	}

	users, total, err := h.store.List(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := listResponse{
		Users: make([]userResponse, 0, len(users)),
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

type updateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.canManage(w, r, id) {
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	var rules []validator.Rule
	if req.Name != nil {
		rules = append(rules,
			validator.Required("name", *req.Name),
			validator.MinLen("name", *req.Name, 3),
		)
	}
	if req.Email != nil {
		rules = append(rules, validator.ValidEmail("email", *req.Email))
	}
	if err := validator.Apply(rules...); err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.store.Update(r.Context(), id, UpdateParams{Name: req.Name, Email: req.Email})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.SoftDelete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "User has been deleted")
}

func (h *handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.canManage(w, r, id) {
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	_, fh, err := r.FormFile(avatarFormField)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Profile picture file is required")
		return
	}

	if err := upload.ValidateImage(fh, maxAvatarBytes); err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			httpx.Message(w, http.StatusBadRequest, "Profile picture is too large")
		case errors.Is(err, upload.ErrNotAnImage):
			httpx.Message(w, http.StatusBadRequest, "Profile picture must be an image")
		default:
			h.respondError(w, r, err)
		}
		return
	}

	key := fmt.Sprintf("avatars/%s", id)
	stored, err := h.storage.Save(r.Context(), fh, key)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.store.SetAvatar(r.Context(), id, h.storage.URL(stored.Key))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

// canManage allows the account owner and admins; everyone else gets the
// same 403 the role guard produces.
func (h *handler) canManage(w http.ResponseWriter, r *http.Request, target uuid.UUID) bool {
	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return false
	}
	if claims.UserID == target || claims.Role == rbac.RoleAdmin.String() {
		return true
	}
	httpx.Message(w, http.StatusForbidden, "Forbidden: Access is denied")
	return false
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if ve := validator.Extract(err); ve != nil {
		httpx.ValidationFailed(w, ve.ByField())
		return
	}

	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		httpx.Message(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrEmailTaken):
		httpx.Message(w, http.StatusConflict, "Email is already taken")
	default:
		h.log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		httpx.InternalError(w)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
