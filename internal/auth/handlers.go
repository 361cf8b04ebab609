package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"volunteer-backend/internal/models"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	service  *Service
	validate *validator.Validate
	cookie   CookieConfig
	logger   *zap.Logger
}

func NewHandler(service *Service, cookie CookieConfig, logger *zap.Logger) *Handler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &Handler{
		service:  service,
		validate: newValidator(),
		cookie:   cookie,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/request-reset", h.RequestReset)
		r.Post("/reset-password", h.ResetPassword)
		r.With(h.RequireSession).Get("/me", h.Me)
	})
}

// Signup registers a new user
// @Summary Register a user
// @Description Creates a volunteer, or an organization admin when org_name is set
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.SignupInput true "Signup payload"
// @Success 201 {object} models.SignupResult
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupInput
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "signup", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Login authenticates a user and returns a session token
// @Summary User login
// @Description OAuth2 password form: username is the email address
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	req := models.LoginInput{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, "login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   int(h.service.SessionTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, token)
}

// Logout clears the session cookie
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RequestReset starts a password reset
// @Summary Request a password reset
// @Description Always answers with the same message whether or not the email exists
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.RequestResetInput true "Email"
// @Success 200 {object} models.MessageResponse
// @Router /auth/request-reset [post]
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.RequestResetInput
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ack, err := h.service.RequestReset(r.Context(), req.Email)
	if err != nil {
		h.respondServiceError(w, "request reset", err)
		return
	}
	respondJSON(w, http.StatusOK, ack)
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.ResetPasswordInput true "Reset token and new password"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} map[string]string "Invalid or expired reset token"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordInput
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		h.respondServiceError(w, "reset password", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Me returns the current authenticated user
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.CurrentUser
// @Failure 401 {object} map[string]string "Not authenticated"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		respondUnauthorized(w, MsgNotAuthenticated)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	var e *Error
	if !errors.As(err, &e) {
		h.logger.Error(op+" failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch e.Kind {
	case KindConflict:
		respondError(w, http.StatusConflict, e.Message)
	case KindUnauthorized:
		respondUnauthorized(w, e.Message)
	case KindBadRequest:
		respondError(w, http.StatusBadRequest, e.Message)
	case KindNotFound:
		respondError(w, http.StatusNotFound, e.Message)
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return v
}

// maxBytes limits the byte length of a string, where the built-in max counts
// runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respondError(w, http.StatusUnauthorized, message)
}
