package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

type registerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthController serves the end-user account endpoints.
type AuthController struct {
	Credentials *services.CredentialService
	Tokens      *services.TokenService
}

func NewAuthController(credentials *services.CredentialService, tokens *services.TokenService) *AuthController {
	return &AuthController{Credentials: credentials, Tokens: tokens}
}

func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if !bindJSON(c, &payload) {
		return
	}

	user, err := ac.Credentials.Create(c.Request.Context(), services.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "User created successfully", user)
}

func (ac *AuthController) Login(c *gin.Context) {
	login(c, ac.Credentials, ac.Tokens, models.RoleUser, services.UserCookie)
}

// login is shared by the user and admin login endpoints; only the role and
// cookie differ.
func login(c *gin.Context, credentials *services.CredentialService, tokens *services.TokenService, role models.Role, cookie string) {
	var payload loginPayload
	if !bindJSON(c, &payload) {
		return
	}

	user, err := credentials.Authenticate(c.Request.Context(), payload.Email, payload.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := tokens.Issue(c.Writer, user.ID, cookie); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Login successful", user)
}

func logout(c *gin.Context, tokens *services.TokenService, cookie string) {
	if token, err := c.Cookie(cookie); err == nil && token != "" {
		if err := tokens.Revoke(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	tokens.Clear(c.Writer, cookie)
	utils.JSONSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) Logout(c *gin.Context) {
	logout(c, ac.Tokens, services.UserCookie)
}

func (ac *AuthController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "User fetched successfully", user)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload changePasswordPayload
	if !bindJSON(c, &payload) {
		return
	}
	if err := ac.Credentials.ChangePassword(c.Request.Context(), user.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Password updated successfully", nil)
}
