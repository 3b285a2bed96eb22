package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/middleware"
	"github.com/noah-isme/campus-complaints/internal/models"
)

// Routes bundles what RegisterRoutes mounts.
type Routes struct {
	Auth       *AuthHandler
	Complaints *ComplaintHandler
	Metrics    *MetricsHandler
	Tokens     middleware.TokenValidator
	Logger     *zap.Logger
}

// RegisterRoutes mounts the complaint API and the health endpoints on r.
func RegisterRoutes(r gin.IRouter, routes Routes) {
	if routes.Metrics != nil {
		r.GET("/health", routes.Metrics.Health)
		r.GET("/ready", routes.Metrics.Ready)
		r.GET("/metrics", routes.Metrics.Prometheus)
	}

	r.POST("/login", routes.Auth.Login)
	r.POST("/register", middleware.Audit(routes.Logger, "register"), routes.Auth.Register)

	authed := r.Group("/", middleware.JWT(routes.Tokens))
	authed.GET("/get_complaints", routes.Complaints.List)
	authed.POST("/submit_complaint",
		middleware.RequireRoles(models.RoleStudent),
		middleware.Audit(routes.Logger, "submit_complaint"),
		routes.Complaints.Submit,
	)
	authed.POST("/resolve_complaint",
		middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(routes.Logger, "resolve_complaint"),
		routes.Complaints.Resolve,
	)
}
