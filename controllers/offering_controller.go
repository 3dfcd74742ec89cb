package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort-backend/repository"
	"resort-backend/services"
	"resort-backend/utils"
)

type offeringPayload struct {
	Name        string   `json:"name" binding:"required"`
	CategoryID  uint     `json:"categoryId" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Amenities   []string `json:"amenities"`
	Image       string   `json:"image" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
}

func (p offeringPayload) input() services.OfferingInput {
	return services.OfferingInput{
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Amenities:   p.Amenities,
		Image:       p.Image,
		Price:       p.Price,
	}
}

// OfferingController serves both the admin catalog endpoints and the
// read-only user listing.
type OfferingController struct {
	Offerings *services.OfferingService
}

func NewOfferingController(offerings *services.OfferingService) *OfferingController {
	return &OfferingController{Offerings: offerings}
}

// filterFromQuery reads ?search= and ?category=. A category that is not a
// number is ignored.
func filterFromQuery(c *gin.Context, withSearch bool) repository.OfferingFilter {
	var filter repository.OfferingFilter
	if withSearch {
		filter.Search = c.Query("search")
	}
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			cid := uint(id)
			filter.CategoryID = &cid
		}
	}
	return filter
}

func (oc *OfferingController) list(c *gin.Context, filter repository.OfferingFilter) {
	list, err := oc.Offerings.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONList(c, http.StatusOK, "Offerings fetched successfully", list, len(list))
}

func (oc *OfferingController) AdminList(c *gin.Context) {
	oc.list(c, filterFromQuery(c, true))
}

func (oc *OfferingController) UserList(c *gin.Context) {
	oc.list(c, filterFromQuery(c, false))
}

func (oc *OfferingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	offering, err := oc.Offerings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Offering fetched successfully", offering)
}

func (oc *OfferingController) Create(c *gin.Context) {
	var payload offeringPayload
	if !bindJSON(c, &payload) {
		return
	}
	offering, err := oc.Offerings.Create(c.Request.Context(), payload.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Offering added successfully", offering)
}

func (oc *OfferingController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload offeringPayload
	if !bindJSON(c, &payload) {
		return
	}
	offering, err := oc.Offerings.Update(c.Request.Context(), id, payload.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Offering updated successfully", offering)
}

func (oc *OfferingController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := oc.Offerings.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Offering deleted successfully", nil)
}
