package handlers

import (
	"net/http"
	"updoot/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, fieldErrs, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		JSONServiceError(c, err)
		return
	}
	if len(fieldErrs) != 0 {
		JSONFieldErrors(c, fieldErrs)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		JSONServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		JSONError(c, http.StatusUnauthorized, "no user logged in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		JSONServiceError(c, err)
		return
	}
	// Same answer whether or not the address exists.
	c.JSON(http.StatusOK, gin.H{"message": "if the address exists, a reset code was sent"})
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	fieldErrs, err := h.users.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password)
	if err != nil {
		JSONServiceError(c, err)
		return
	}
	if len(fieldErrs) != 0 {
		JSONFieldErrors(c, fieldErrs)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset, please log in"})
}
