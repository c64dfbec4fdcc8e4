// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/mazenwkamel/StackTics/internal/project"
)

// Dependencies holds all handler dependencies.
type Dependencies struct {
	Plans     *project.Store
	ExportDir string
	MaxBoxes  int
	Version   string
}

// NewHandlers creates the handler set from its dependencies.
func NewHandlers(deps *Dependencies) *Handler {
	return NewHandler(deps.Plans, deps.ExportDir, deps.MaxBoxes, deps.Version)
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.HandleRoot)
	e.GET("/health", h.HandleHealth)
	e.POST("/optimize", h.HandleOptimize)

	exportGroup := e.Group("/api/export")
	exportGroup.POST("/:format", h.HandleExport)

	e.POST("/api/boxes/import", h.HandleImportBoxes)

	planGroup := e.Group("/api/plans")
	planGroup.POST("", h.HandleSavePlan)
	planGroup.GET("", h.HandleListPlans)
	planGroup.GET("/:id", h.HandleGetPlan)
	planGroup.DELETE("/:id", h.HandleDeletePlan)
}
