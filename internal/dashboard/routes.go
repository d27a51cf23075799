package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, a *api) {
	router.GET("/healthz", a.handleHealthz)
	router.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Invocation boundary for workflow runs.
	router.POST("/functions/run-workflow", a.handleRunWorkflow)

	g := router.Group("/api")
	g.GET("/clients", a.handleListClients)
	g.POST("/clients", a.handleCreateClient)
	g.GET("/clients/ghosts", a.handleGhostClients)
	g.GET("/clients/:id", a.handleGetClient)
	g.PATCH("/clients/:id", a.handleUpdateClient)
	g.DELETE("/clients/:id", a.handleDeleteClient)
	g.GET("/clients/:id/tasks", a.handleClientTasks)
	g.POST("/clients/:id/horizon", a.handleClientHorizon)

	g.POST("/tasks", a.handleCreateTask)
	g.GET("/tasks/health", a.handleTaskHealth)
	g.GET("/tasks/red-flags", a.handleRedFlags)
	g.PATCH("/tasks/:id", a.handleUpdateTask)
	g.DELETE("/tasks/:id", a.handleDeleteTask)

	g.GET("/templates", a.handleListTemplates)
	g.GET("/templates/:id/steps", a.handleTemplateSteps)
}
