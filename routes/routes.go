package routes

import (
	"net/http"
	"time"

	"visitcare/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterMatchingRoutes registers the matching engine endpoints.
func RegisterMatchingRoutes(r *gin.Engine, mh *handlers.MatchingHandler) {
	api := r.Group("/api/matching")
	{
		api.POST("/search", mh.SearchTherapists)
		api.GET("/slots", mh.SuggestSlots)
	}
}

// RegisterBookingRoutes registers the booking session endpoints.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.POST("/sessions", bh.InitiateSession)
		api.POST("/sessions/:id/confirm", bh.ConfirmVisit)
		api.DELETE("/sessions/:id", bh.CancelSession)
	}
}

// RegisterSystemRoutes registers health and CORS plumbing.
func RegisterSystemRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	r.GET("/health", handlers.HealthCheck)
}
