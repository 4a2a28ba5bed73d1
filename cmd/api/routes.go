package main

import (
	"voice-webhooks/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to the dispatcher.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/", h.Home)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Voice platform webhooks (public, unauthenticated).
	r.POST("/inbound", h.Inbound)
	r.POST("/send-sms", h.SendSMS)
	r.POST("/webhook", h.Webhook)
}
