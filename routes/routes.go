package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"furever/handlers"
)

// RegisterScheduleRoutes registers all endpoints for the calendar engine.
func RegisterScheduleRoutes(r *gin.Engine, sh *handlers.ScheduleHandler) {
	api := r.Group("/api/schedule/:providerID")
	{
		api.GET("/calendar", sh.GetCalendarHandler)
		api.GET("/days/:date", sh.GetDayHandler)
		api.PUT("/days/:date", sh.SetDayHandler)
		api.POST("/days/:date/slots", sh.AddSlotHandler)
		api.DELETE("/days/:date/slots/:slotID", sh.DeleteSlotHandler)
		api.POST("/preset", sh.ApplyPresetHandler)
		api.POST("/clear", sh.ClearAllHandler)
		api.POST("/refresh", sh.RefreshHandler)
		api.POST("/refresh/async", sh.EnqueueRefreshHandler)
		api.DELETE("/session", sh.ReleaseSessionHandler)
		api.GET("/packages", sh.GetServicePackagesHandler)
	}
}

// RegisterRoutes wires CORS, health, and the schedule API.
func RegisterRoutes(r *gin.Engine, sh *handlers.ScheduleHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	RegisterScheduleRoutes(r, sh)
}
