package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservations/controllers"
	"hotel-reservations/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances to the HTTP surface.
func SetupRouter(
	bc *controllers.BookingController,
	qc *controllers.QueryController,
	ic *controllers.InvoiceController,
	hc *controllers.HotelController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.GET("", qc.SearchBookings)
			bookings.POST("", bc.CreateBooking)

			// static segments before /:id
			bookings.GET("/number/:number", bc.GetBookingByNumber)

			bookings.GET("/:id", bc.GetBooking)
			bookings.PATCH("/:id", bc.UpdateStay)

			bookings.POST("/:id/status", bc.ChangeStatus)
			bookings.POST("/:id/validate", bc.ValidateBooking)
			bookings.POST("/:id/checkin", bc.CheckIn)
			bookings.POST("/:id/checkout", bc.CheckOut)
			bookings.POST("/:id/cancel", bc.CancelBooking)

			bookings.POST("/:id/extras", bc.AddExtra)
			bookings.POST("/:id/payments", bc.RecordPayment)

			bookings.POST("/:id/requests", bc.AddSpecialRequest)
			bookings.PATCH("/:id/requests/:requestId", bc.HandleSpecialRequest)

			bookings.GET("/:id/invoice", ic.GenerateInvoice)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", hc.GetHotels)
			hotels.GET("/:id", hc.GetHotel)
			hotels.GET("/:id/rooms", hc.GetRooms)

			hotels.GET("/:id/stats", qc.GetBookingStats)
			hotels.GET("/:id/pending-validation", qc.GetPendingValidation)
			hotels.GET("/:id/occupancy", qc.GetOccupancyRate)
		}
	}

	return r
}
