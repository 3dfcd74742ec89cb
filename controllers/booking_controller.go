package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/services"
	"resort-backend/utils"
)

type createBookingPayload struct {
	OfferingID     uint   `json:"offeringId" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Guests         int    `json:"guests" binding:"required,min=1"`
	CheckIn        string `json:"checkIn" binding:"required"`
	CheckOut       string `json:"checkOut" binding:"required"`
	SpecialRequest string `json:"specialRequest"`
}

type updateStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

// ---------------------------
// User endpoints
// ---------------------------

func (bc *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if !bindJSON(c, &payload) {
		return
	}

	booking, err := bc.Bookings.Create(c.Request.Context(), services.CreateBookingInput{
		OfferingID:     payload.OfferingID,
		Name:           payload.Name,
		Phone:          payload.Phone,
		Email:          payload.Email,
		Guests:         payload.Guests,
		CheckIn:        payload.CheckIn,
		CheckOut:       payload.CheckOut,
		SpecialRequest: payload.SpecialRequest,
	}, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Booking created successfully", booking)
}

func (bc *BookingController) ListMine(c *gin.Context) {
	list, err := bc.Bookings.ListForUser(c.Request.Context(), middleware.CurrentUser(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONList(c, http.StatusOK, "Bookings fetched successfully", list, len(list))
}

func (bc *BookingController) GetMine(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetByID(c.Request.Context(), id, middleware.CurrentUser(c), services.ScopeOwner)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking fetched successfully", booking)
}

func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Cancel(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking cancelled successfully", booking)
}

// ---------------------------
// Admin endpoints
// ---------------------------

// ListAll accepts ?status= and ?search= (offering name).
func (bc *BookingController) ListAll(c *gin.Context) {
	list, err := bc.Bookings.ListAll(c.Request.Context(), services.AdminBookingFilter{
		Status:         c.Query("status"),
		OfferingSearch: c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONList(c, http.StatusOK, "Bookings fetched successfully", list, len(list))
}

func (bc *BookingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetByID(c.Request.Context(), id, nil, services.ScopeAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking fetched successfully", booking)
}

func (bc *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload updateStatusPayload
	if !bindJSON(c, &payload) {
		return
	}
	booking, err := bc.Bookings.UpdateStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking status updated successfully", booking)
}
