package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-reservations/models"
	"hotel-reservations/services"
	"hotel-reservations/utils"
)

type QueryController struct {
	QuerySvc *services.QueryService
}

func NewQueryController(svc *services.QueryService) *QueryController {
	return &QueryController{QuerySvc: svc}
}

func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func queryDate(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

// SearchBookings translates query parameters into a filter set. Status
// accepts legacy casings and is normalized at this boundary.
func (ctrl *QueryController) SearchBookings(c *gin.Context) {
	filters := services.SearchFilters{
		UserID:        queryUint(c, "userId"),
		HotelID:       queryUint(c, "hotelId"),
		DateFrom:      queryDate(c, "dateFrom"),
		DateTo:        queryDate(c, "dateTo"),
		BookingNumber: c.Query("bookingNumber"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.NormalizeStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filters.Limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filters.Offset = v
		}
	}

	list, err := ctrl.QuerySvc.SearchBookings(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *QueryController) GetBookingStats(c *gin.Context) {
	hotelID, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := ctrl.QuerySvc.GetBookingStats(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

func (ctrl *QueryController) GetPendingValidation(c *gin.Context) {
	hotelID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.QuerySvc.GetPendingValidation(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *QueryController) GetOccupancyRate(c *gin.Context) {
	hotelID, ok := parseID(c, "id")
	if !ok {
		return
	}
	from := queryDate(c, "from")
	to := queryDate(c, "to")
	if from == nil || to == nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "from and to dates are required")
		return
	}

	report, err := ctrl.QuerySvc.GetOccupancyRate(hotelID, *from, *to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}
