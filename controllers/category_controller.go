package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
	"resort-backend/utils"
)

type categoryPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryController struct {
	Categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{Categories: categories}
}

func (cc *CategoryController) List(c *gin.Context) {
	list, err := cc.Categories.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONList(c, http.StatusOK, "Categories fetched successfully", list, len(list))
}

func (cc *CategoryController) Create(c *gin.Context) {
	var payload categoryPayload
	if !bindJSON(c, &payload) {
		return
	}

	category, err := cc.Categories.Create(c.Request.Context(), services.CategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Category added successfully", category)
}

func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload categoryPayload
	if !bindJSON(c, &payload) {
		return
	}

	category, err := cc.Categories.Update(c.Request.Context(), id, services.CategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Category updated successfully", category)
}

func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := cc.Categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Category deleted successfully", nil)
}
