// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-reservations/models"
	"hotel-reservations/services"
	"hotel-reservations/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type ChangeStatusPayload struct {
	// Accepts legacy casings ("Checked-In") and maps them to canonical.
	Status  string `json:"status" binding:"required"`
	ActorID string `json:"actorId" binding:"required"`
	Reason  string `json:"reason"`
	Notes   string `json:"notes"`
}

type ActorPayload struct {
	ActorID string `json:"actorId" binding:"required"`
	Notes   string `json:"notes"`
}

type CancelPayload struct {
	Reason  string `json:"reason" binding:"required"`
	ActorID string `json:"actorId" binding:"required"`
	Notes   string `json:"notes"`
}

type AddExtraPayload struct {
	services.ExtraInput
	ActorID string `json:"actorId" binding:"required"`
}

type RecordPaymentPayload struct {
	Method        string          `json:"method" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
}

type HandleRequestPayload struct {
	Status  models.SpecialRequestStatus `json:"status" binding:"required"`
	ActorID string                      `json:"actorId" binding:"required"`
	Notes   string                      `json:"notes"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps the typed engine errors onto HTTP statuses. The
// errors themselves are surfaced unchanged in the body so callers can act on
// the details.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var tErr *services.TransitionError
	var ncErr *services.NotCancellableError
	var ccErr *services.ConcurrencyError
	var nfErr *services.NotFoundError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code":    "error.validation",
			"field":   vErr.Field,
			"message": vErr.Message,
		}})
	case errors.As(err, &tErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{
			"code":    "error.invalidTransition",
			"from":    tErr.From,
			"to":      tErr.To,
			"message": tErr.Error(),
		}})
	case errors.As(err, &ncErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{
			"code":    "error.notCancellable",
			"status":  ncErr.Status,
			"checkIn": ncErr.CheckIn,
			"message": ncErr.Error(),
		}})
	case errors.As(err, &ccErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{
			"code":      "error.concurrentUpdate",
			"bookingId": ccErr.BookingID,
			"message":   ccErr.Error(),
		}})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{
			"code":      "error.bookingNotFound",
			"bookingId": nfErr.BookingID,
			"message":   nfErr.Error(),
		}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{
			"code":    "error.internal",
			"message": err.Error(),
		}})
	}
}

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}
	in.Source = models.BookingSource(strings.ToUpper(strings.TrimSpace(string(in.Source))))

	booking, err := ctrl.BookingSvc.CreateBooking(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) GetBookingByNumber(c *gin.Context) {
	booking, err := ctrl.BookingSvc.GetBookingByNumber(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p ChangeStatusPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	target := models.NormalizeStatus(p.Status)
	booking, err := ctrl.BookingSvc.ChangeStatus(id, target, p.ActorID, p.Reason, p.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) ValidateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p ActorPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.Validate(id, p.ActorID, p.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p ActorPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.CheckIn(id, p.ActorID, p.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckOut(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p ActorPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.CheckOut(id, p.ActorID, p.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p CancelPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.Cancel(id, p.Reason, p.ActorID, p.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) AddExtra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p AddExtraPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.AddExtra(id, p.ExtraInput, p.ActorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p RecordPaymentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.RecordPayment(id, p.Method, p.Amount, p.TransactionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) UpdateStay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateStayInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.UpdateStay(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) AddSpecialRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.SpecialRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.AddSpecialRequest(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) HandleSpecialRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reqID, ok := parseID(c, "requestId")
	if !ok {
		return
	}
	var p HandleRequestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	if err := ctrl.BookingSvc.HandleSpecialRequest(id, reqID, p.Status, p.ActorID, p.Notes); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"handled": true})
}
