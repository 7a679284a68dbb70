package main

import (
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/httpapi"
	"hotel-assistant-api/internal/metrics"
	"hotel-assistant-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, guard gin.HandlerFunc, ws *realtime.WSHandler) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// The websocket guard accepts ?token= since browser clients cannot set
	// headers on the upgrade request.
	r.GET("/ws", guard, ws.Handle)

	api := r.Group("/api")

	// AUTH routes (credential exchange, no guard).
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// Everything below requires a valid access token and a live account row.
	authed := api.Group("")
	authed.Use(guard)
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/auth/me", h.Me)

		assistants := authed.Group("/assistants")
		{
			assistants.GET("", h.ListAssistants)
			assistants.GET("/:assistantId", h.GetAssistant)
			assistants.GET("/:assistantId/analytics/calls", h.CallAnalytics)
			assistants.GET("/:assistantId/analytics/transcripts", h.Transcripts)
			assistants.GET("/:assistantId/analytics/tickets", h.Tickets)
			assistants.GET("/:assistantId/analytics/tickets/export", h.ExportTickets)
		}

		// ADMIN routes
		admin := authed.Group("")
		admin.Use(authz.RequireAdmin())
		{
			admin.DELETE("/assistants/:assistantId", h.DeleteAssistant)
			admin.GET("/calls/:callId/recording", h.Recording)

			users := admin.Group("/admin/users")
			{
				users.GET("", h.ListUsers)
				users.POST("", h.CreateUser)
				users.PUT("/:userId", h.UpdateUser)
				users.DELETE("/:userId", h.DeleteUser)
			}

			phones := admin.Group("/phone-numbers")
			{
				phones.GET("", h.ListPhoneNumbers)
				phones.POST("", h.CreatePhoneNumber)
				phones.PATCH("/:id", h.UpdatePhoneNumber)
				phones.DELETE("/:id", h.DeletePhoneNumber)
			}
		}
	}
}
