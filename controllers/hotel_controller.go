package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel-reservations/models"
	"hotel-reservations/utils"
)

// HotelController serves the read side of the hotel/room inventory that the
// booking engine references by ID.
type HotelController struct {
	DB *gorm.DB
}

func NewHotelController(db *gorm.DB) *HotelController {
	return &HotelController{DB: db}
}

func (ctrl *HotelController) GetHotels(c *gin.Context) {
	var hotels []models.Hotel
	if err := ctrl.DB.Find(&hotels).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotels)
}

func (ctrl *HotelController) GetHotel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var hotel models.Hotel
	if err := ctrl.DB.Preload("Rooms").First(&hotel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "error.hotelNotFound", "hotel not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

func (ctrl *HotelController) GetRooms(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var rooms []models.Room
	if err := ctrl.DB.Where("hotel_id = ?", id).Find(&rooms).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}
