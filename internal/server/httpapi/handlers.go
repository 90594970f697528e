// Package httpapi exposes the REST API under /api/1.0: user registration and
// lifecycle, authentication with opaque bearer tokens, and profile images.
package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/logging"
	"github.com/samuelireke/hoaxify/internal/server/models"
	"github.com/samuelireke/hoaxify/internal/server/services"
)

// ImageURLProvider resolves a stored image key to a fetchable URL.
// Implemented by services.FileService.
type ImageURLProvider interface {
	URL(ctx context.Context, key string) (string, error)
}

type Handler struct {
	users  *services.UserService
	tokens *services.TokenService
	images ImageURLProvider
	logger logging.Logger
}

func NewHandler(users *services.UserService, tokens *services.TokenService,
	images ImageURLProvider, logger logging.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, images: images, logger: logger}
}

// Routes returns the API handler with token authentication applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/1.0/users", h.register)
	mux.HandleFunc("POST /api/1.0/users/token/{token}", h.activate)
	mux.HandleFunc("GET /api/1.0/users", h.listUsers)
	mux.HandleFunc("GET /api/1.0/users/{id}", h.getUser)
	mux.HandleFunc("GET /api/1.0/users/{id}/image", h.getUserImage)
	mux.HandleFunc("PUT /api/1.0/users/{id}", h.updateUser)
	mux.HandleFunc("DELETE /api/1.0/users/{id}", h.deleteUser)
	mux.HandleFunc("POST /api/1.0/user/password", h.requestPasswordReset)
	mux.HandleFunc("PUT /api/1.0/user/password", h.resetPassword)
	mux.HandleFunc("POST /api/1.0/auth", h.login)
	mux.HandleFunc("POST /api/1.0/logout", h.logout)

	return TokenAuthentication(h.tokens)(mux)
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image,omitempty"`
}

func toUserResponse(u *models.User) *userResponse {
	return &userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Image: u.Image}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	validationErrors := map[string]string{}
	if msg := validateUsername(body.Username); msg != "" {
		validationErrors["username"] = msg
	}
	msg, err := validateEmail(r.Context(), h.users, body.Email)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if msg != "" {
		validationErrors["email"] = msg
	}
	if msg := validatePassword(body.Password); msg != "" {
		validationErrors["password"] = msg
	}
	if len(validationErrors) > 0 {
		writeValidationError(w, r, validationErrors)
		return
	}

	if err := h.users.Register(r.Context(), body.Username, body.Email, body.Password); err != nil {
		switch {
		case errors.Is(err, common.ErrorEmailInUse):
			writeValidationError(w, r, map[string]string{"email": msgEmailInUse})
		case errors.Is(err, common.ErrorEmailDelivery):
			writeError(w, r, http.StatusBadGateway, "E-mail Failure")
		default:
			h.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User created"})
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	err := h.users.Activate(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, common.ErrorInvalidToken) {
			writeError(w, r, http.StatusBadRequest, "This account is either active or the token is invalid")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account is activated"})
}

func parsePageQuery(r *http.Request) (page, size int) {
	page, size = 0, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v >= 1 && v <= 10 {
		size = v
	}
	return page, size
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, size := parsePageQuery(r)
	authenticatedID, _ := UserIDFromContext(r.Context())

	result, err := h.users.List(r.Context(), page, size, authenticatedID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	content := make([]*userResponse, 0, len(result.Content))
	for _, u := range result.Content {
		content = append(content, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":    content,
		"page":       result.Page,
		"size":       result.Size,
		"totalPages": result.TotalPages,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) getUserImage(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	if user.Image == "" {
		writeError(w, r, http.StatusNotFound, "User not found")
		return
	}

	url, err := h.images.URL(r.Context(), user.Image)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	authenticatedID, ok := UserIDFromContext(r.Context())
	if !ok || authenticatedID != r.PathValue("id") {
		writeError(w, r, http.StatusForbidden, "You are not authorized to update user")
		return
	}

	var body struct {
		Username string `json:"username"`
		Image    string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	validationErrors := map[string]string{}
	if msg := validateUsername(body.Username); msg != "" {
		validationErrors["username"] = msg
	}

	var image []byte
	if body.Image != "" {
		decoded, err := base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			validationErrors["image"] = msgImageType
		} else {
			image = decoded
			if msg := validateImage(image); msg != "" {
				validationErrors["image"] = msg
			}
		}
	}
	if len(validationErrors) > 0 {
		writeValidationError(w, r, validationErrors)
		return
	}

	user, err := h.users.Update(r.Context(), authenticatedID, body.Username, image)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	authenticatedID, ok := UserIDFromContext(r.Context())
	if !ok || authenticatedID != r.PathValue("id") {
		writeError(w, r, http.StatusForbidden, "You are not authorized to delete user")
		return
	}

	if err := h.users.Delete(r.Context(), authenticatedID); err != nil {
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.users.RequestPasswordReset(r.Context(), body.Email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, r, http.StatusNotFound, "E-mail not found")
		case errors.Is(err, common.ErrorEmailDelivery):
			writeError(w, r, http.StatusBadGateway, "E-mail Failure")
		default:
			h.internalError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Check your e-mail for resetting your password"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PasswordResetToken string `json:"passwordResetToken"`
		Password           string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	// the token is checked before the new password so an attacker probing
	// with bad tokens learns nothing from validation responses
	if _, err := h.users.FindByPasswordResetToken(r.Context(), body.PasswordResetToken); err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			writeError(w, r, http.StatusForbidden,
				"You are not authorized to update your password. Please follow the password reset steps again")
			return
		}
		h.internalError(w, r, err)
		return
	}

	if msg := validatePassword(body.Password); msg != "" {
		writeValidationError(w, r, map[string]string{"password": msg})
		return
	}

	if err := h.users.ResetPassword(r.Context(), body.PasswordResetToken, body.Password); err != nil {
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, r, http.StatusUnauthorized, "Incorrect credentials")
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, r, http.StatusForbidden, "Account is inactive")
		default:
			h.internalError(w, r, err)
		}
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"image":    user.Image,
		"token":    token,
	})
}

// logout revokes the presented token. It always answers 200: revoking an
// absent or already-dead token leaks nothing and retrying a logout must
// never fail.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if value := BearerToken(r); value != "" {
		if err := h.tokens.Revoke(r.Context(), value); err != nil {
			h.logger.Warn(r.Context(), "logout revoke failed", "error", err)
		}
	}
	w.WriteHeader(http.StatusOK)
}
