package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-identity/internal/application"
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	"github.com/oksasatya/go-user-identity/internal/interface/middleware"
	"github.com/oksasatya/go-user-identity/pkg/helpers"
	"github.com/oksasatya/go-user-identity/pkg/response"
	"github.com/oksasatya/go-user-identity/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,strongpwd"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
	Role      string `json:"role" binding:"omitempty,oneof=admin user guest"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Phone           *string `json:"phone"`
	ProfileImageURL *string `json:"profile_image_url"`
	Timezone        *string `json:"timezone"`
	Language        *string `json:"language"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,strongpwd"`
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user guest"`
}

type deactivateRequest struct {
	Reason string `json:"reason"`
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	var verr *domainerr.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", map[string]string{verr.Field: verr.Message})
		return
	}
	var cerr *domainerr.ConflictError
	if errors.As(err, &cerr) {
		response.Error[any](c, http.StatusConflict, cerr.Message, map[string]string{"field": cerr.Field})
		return
	}
	switch {
	case errors.Is(err, domainerr.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, domainerr.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

// selfOrAdmin returns the target id when the caller is the target user or
// an admin, aborting with 403 otherwise.
func selfOrAdmin(c *gin.Context) (int64, bool) {
	id, ok := pathID(c)
	if !ok {
		return 0, false
	}
	if c.GetString(middleware.CtxUserRoleKey) == "admin" {
		return id, true
	}
	if c.GetString(middleware.CtxUserIDKey) == strconv.FormatInt(id, 10) {
		return id, true
	}
	response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
	return 0, false
}

// Register POST /api/v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterUserCommand{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userapp.NewUserView(u), "user registered", nil)
}

// Login POST /api/v1/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Refresh POST /api/v1/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout POST /api/v1/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if uid := c.GetString(middleware.CtxUserIDKey); uid != "" {
		h.Svc.Logout(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Me GET /api/v1/me
func (h *UserHandler) Me(c *gin.Context) {
	id, err := strconv.ParseInt(c.GetString(middleware.CtxUserIDKey), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	view, err := h.Svc.GetUser(c.Request.Context(), userapp.GetUserQuery{UserID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "profile", nil)
}

// GetUser GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.Svc.GetUser(c.Request.Context(), userapp.GetUserQuery{UserID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "user", nil)
}

// GetUsers GET /api/v1/users?role=&active=&page=&per_page=
func (h *UserHandler) GetUsers(c *gin.Context) {
	q := userapp.GetUsersQuery{Role: c.Query("role")}
	if v := c.Query("active"); v != "" {
		active := v == "true" || v == "1"
		q.IsActive = &active
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))

	views, err := h.Svc.GetUsers(c.Request.Context(), q)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, views, "users", map[string]any{"page": q.Page, "per_page": q.PerPage, "count": len(views)})
}

// Search GET /api/v1/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("user search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// UpdateUser PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := selfOrAdmin(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), userapp.UpdateUserProfileCommand{
		UserID:          id,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		ProfileImageURL: req.ProfileImageURL,
		Timezone:        req.Timezone,
		Language:        req.Language,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userapp.NewUserView(u), "profile updated", nil)
}

// ChangePassword PUT /api/v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := selfOrAdmin(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if _, err := h.Svc.ChangePassword(c.Request.Context(), userapp.ChangePasswordCommand{UserID: id, NewPassword: req.NewPassword}); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"changed": true}, "password changed", nil)
}

// DeleteUser DELETE /api/v1/users/:id
// Deletion is a soft delete: the account is deactivated, not removed.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req deactivateRequest
	_ = c.ShouldBindJSON(&req)
	reason := req.Reason
	if reason == "" {
		reason = "Account deleted via API"
	}
	if _, err := h.Svc.Deactivate(c.Request.Context(), userapp.DeactivateUserCommand{UserID: id, Reason: reason}); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deactivated": true}, "user deactivated", nil)
}

// ActivateUser POST /api/v1/users/:id/activate
func (h *UserHandler) ActivateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Activate(c.Request.Context(), userapp.ActivateUserCommand{UserID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userapp.NewUserView(u), "user activated", nil)
}

// ChangeRole PUT /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangeRole(c.Request.Context(), userapp.ChangeRoleCommand{UserID: id, Role: req.Role})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userapp.NewUserView(u), "role changed", nil)
}

// UploadAvatar POST /api/v1/users/:id/avatar (multipart form, field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := selfOrAdmin(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	if fh.Size > 5<<20 {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), id, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", id).Error("avatar upload failed")
		}
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userapp.NewUserView(u), "avatar uploaded", nil)
}
