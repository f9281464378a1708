package routes

import (
	"net/http"
	"time"

	"recruitd/handlers"
	"recruitd/middleware"
	"recruitd/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the HTTP handlers wired in main.
type HandlerBundle struct {
	Negotiations *handlers.NegotiationHandler
	Schedules    *handlers.ScheduleHandler
}

// RegisterNegotiationRoutes registers the rate negotiation endpoints.
// Reads are open; anything that mutates a negotiation requires a token.
func RegisterNegotiationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/negotiations")
	{
		api.GET("", hb.Negotiations.List)
		api.GET("/analytics", hb.Negotiations.Analytics)
		api.GET("/:id", hb.Negotiations.Get)
		api.GET("/:id/rounds", hb.Negotiations.Rounds)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.Negotiations.Initiate)
		protected.POST("/:id/rounds", hb.Negotiations.AddRound)
		protected.POST("/:id/counter", hb.Negotiations.Counter)
		protected.POST("/:id/evaluate-margin", hb.Negotiations.EvaluateMargin)
		protected.POST("/:id/suggest-rate", hb.Negotiations.SuggestRate)
		protected.POST("/:id/auto-negotiate", hb.Negotiations.AutoNegotiate)
		protected.POST("/:id/finalize", hb.Negotiations.Finalize)
		protected.POST("/:id/terminate", hb.Negotiations.Terminate)
	}
}

// RegisterScheduleRoutes registers the interview scheduling endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/negotiations/interview-schedule")
	{
		api.GET("", hb.Schedules.List)
		api.GET("/analytics", hb.Schedules.Analytics)
		api.GET("/:id", hb.Schedules.Get)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.Schedules.Schedule)
		protected.PUT("/:id/reschedule", hb.Schedules.Reschedule)
		protected.POST("/:id/cancel", hb.Schedules.Cancel)
		protected.POST("/:id/confirm", hb.Schedules.Confirm)
		protected.POST("/:id/complete", hb.Schedules.Complete)
		protected.POST("/:id/no-show", hb.Schedules.NoShow)
		protected.POST("/check-availability", hb.Schedules.CheckAvailability)
		protected.POST("/send-reminders", hb.Schedules.SendReminders)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterNegotiationRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
}
