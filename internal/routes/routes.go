package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/technews/technews-backend/internal/handler"
	"github.com/technews/technews-backend/internal/middleware"
	"github.com/technews/technews-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	workflowHandler *handler.WorkflowHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api")

	// Editorial workflow. Submit is open to authenticated authors (the
	// service enforces ownership); the rest require editor role.
	wf := api.Group("/workflow", middleware.JWTAuth(jwtManager))
	wf.POST("/submit/:id", workflowHandler.Submit)
	wf.POST("/approve/:id", middleware.RequireEditor(), workflowHandler.Approve)
	wf.POST("/reject/:id", middleware.RequireEditor(), workflowHandler.Reject)
	wf.POST("/schedule/:id", middleware.RequireEditor(), workflowHandler.Schedule)
	wf.GET("/pending", middleware.RequireEditor(), workflowHandler.Pending)
	wf.GET("/logs/:id", workflowHandler.Logs)
}
