package handler

import (
	"net/http"

	"github.com/vr-ski/TransactionManager/internal/service"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validator   *helpers.CustomValidator
	log         *logger.Logger
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, v *helpers.CustomValidator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validator:   v,
		log:         log,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login with form fields username and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeBadPayload(w, r)
		return
	}

	req := loginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if !validateRequest(w, r, h.validator, &req) {
		return
	}

	token, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// Me handles GET /me/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
