package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-pms/controllers"
	"hotel-pms/middleware"
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

// SetupRouter wires controllers onto the HTTP surface. Guest self-service
// endpoints are open (authenticated upstream); everything else requires the
// staff API key.
func SetupRouter(
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	ic *controllers.InvoiceController,
	sc *controllers.SettingsController,
	apiKey string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/uploads", "./uploads")

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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-API-Key", "X-Guest-ID", "X-Staff-User"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Guest self-service surface.
		guest := api.Group("/guest")
		{
			guest.POST("/bookings", bc.CreateGuestBooking)
		}
		api.GET("/rooms/available", rc.GetAvailableRooms)

		// Staff surface.
		staff := api.Group("", middleware.StaffKey(apiKey))
		{
			rooms := staff.Group("/rooms")
			{
				rooms.GET("", rc.GetRooms)
				rooms.POST("", rc.CreateRoom)
				rooms.GET("/:id", rc.GetRoom)
				rooms.PATCH("/:id", rc.UpdateRoom)
				rooms.PATCH("/:id/status", rc.SetRoomStatus)
				rooms.PUT("/:id/image", rc.SetRoomImage)
			}

			bookings := staff.Group("/bookings")
			{
				bookings.GET("", bc.ListBookings)
				bookings.POST("", bc.CreateStaffBooking)
				bookings.GET("/:id", bc.GetBooking)
				bookings.POST("/:id/confirm", bc.ConfirmBooking)
				bookings.POST("/:id/checkin", bc.CheckIn)
				bookings.POST("/:id/checkout", bc.CheckOut)
				bookings.POST("/:id/cancel", bc.CancelBooking)
			}

			invoices := staff.Group("/invoices")
			{
				invoices.GET("", ic.ListInvoices)
				invoices.POST("", ic.CreateInvoice)
				invoices.GET("/:id", ic.GetInvoice)
				invoices.POST("/:id/pay", ic.MarkPaid)
				invoices.GET("/:id/document", ic.DownloadDocument)
			}

			settings := staff.Group("/settings")
			{
				settings.GET("", sc.GetHotelSettings)
				settings.PUT("", sc.UpdateHotelSettings)
			}
		}
	}

	return r
}
