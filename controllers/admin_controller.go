package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

// AdminController serves admin session and user-directory endpoints.
type AdminController struct {
	Credentials *services.CredentialService
	Tokens      *services.TokenService
}

func NewAdminController(credentials *services.CredentialService, tokens *services.TokenService) *AdminController {
	return &AdminController{Credentials: credentials, Tokens: tokens}
}

func (ac *AdminController) Login(c *gin.Context) {
	login(c, ac.Credentials, ac.Tokens, models.RoleAdmin, services.AdminCookie)
}

func (ac *AdminController) Get(c *gin.Context) {
	admin := middleware.CurrentUser(c)
	if admin == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Admin fetched successfully", admin)
}

func (ac *AdminController) Logout(c *gin.Context) {
	logout(c, ac.Tokens, services.AdminCookie)
}

// Users lists accounts matching ?search=, with the total number of accounts.
func (ac *AdminController) Users(c *gin.Context) {
	users, total, err := ac.Credentials.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Users fetched successfully",
		"data":    users,
		"count":   len(users),
		"total":   total,
	})
}
