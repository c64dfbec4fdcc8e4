package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mazenwkamel/StackTics/internal/engine"
	"github.com/mazenwkamel/StackTics/internal/export"
	"github.com/mazenwkamel/StackTics/internal/importer"
	"github.com/mazenwkamel/StackTics/internal/model"
	"github.com/mazenwkamel/StackTics/internal/project"
)

// Handler handles API requests.
type Handler struct {
	plans     *project.Store
	exportDir string
	maxBoxes  int
	version   string
}

// NewHandler creates a new API handler.
func NewHandler(plans *project.Store, exportDir string, maxBoxes int, version string) *Handler {
	return &Handler{
		plans:     plans,
		exportDir: exportDir,
		maxBoxes:  maxBoxes,
		version:   version,
	}
}

// HandleRoot returns basic service information.
func (h *Handler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"app":     "StackTics",
		"version": h.version,
		"docs":    "POST /optimize with {bed, boxes, settings}",
	})
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     "StackTics",
		"version": h.version,
	})
}

// runOptimize binds, validates and runs the engine for the request body.
func (h *Handler) runOptimize(c echo.Context) (OptimizeRequest, model.OptimizeResult, error) {
	var req OptimizeRequest
	if err := c.Bind(&req); err != nil {
		return req, model.OptimizeResult{}, NewBadRequestError("Invalid request body", err)
	}
	if apiErr := req.Validate(h.maxBoxes); apiErr != nil {
		return req, model.OptimizeResult{}, apiErr
	}

	opt := engine.New(req.Settings.ToSettings())
	result, err := opt.Optimize(req.Bed.ToBed(), req.ToBoxes())
	if err != nil {
		return req, model.OptimizeResult{}, NewValidationError("%s", err.Error())
	}
	return req, result, nil
}

// HandleOptimize runs the packing engine and returns the solution.
func (h *Handler) HandleOptimize(c echo.Context) error {
	_, result, err := h.runOptimize(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// exportFormats maps the route parameter to a file renderer.
var exportFormats = map[string]struct {
	ext    string
	render func(path string, plan model.Plan) error
}{
	"pdf":    {".pdf", export.ExportPDF},
	"labels": {".pdf", export.ExportLabels},
	"xlsx":   {".xlsx", export.ExportXLSX},
	"dxf":    {".dxf", export.ExportDXF},
}

// HandleExport runs the engine on the request body and returns the
// rendered plan in the requested format as a file attachment.
func (h *Handler) HandleExport(c echo.Context) error {
	format := c.Param("format")
	renderer, ok := exportFormats[format]
	if !ok {
		return NewNotFoundError("export format", format)
	}

	req, result, err := h.runOptimize(c)
	if err != nil {
		return err
	}
	if len(result.Placements) == 0 {
		return NewValidationError("nothing to export: no boxes could be placed")
	}

	plan := model.NewPlan("export", req.Bed.ToBed(), req.ToBoxes(), req.Settings.ToSettings(), result)

	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		return NewInternalError("Failed to prepare export directory", err)
	}
	filename := fmt.Sprintf("stacktics_%s_%s%s", format, plan.ID, renderer.ext)
	path := filepath.Join(h.exportDir, filename)
	if err := renderer.render(path, plan); err != nil {
		return NewInternalError("Failed to render export", err)
	}
	return c.Attachment(path, filename)
}

// HandleImportBoxes parses an uploaded CSV or XLSX box list.
func (h *Handler) HandleImportBoxes(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("Missing file upload field 'file'", err)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return NewInternalError("Failed to read upload", err)
	}
	defer src.Close()

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx", ".xls":
		result = importer.ImportExcelReader(src)
	case ".csv", ".txt", ".tsv":
		data, readErr := io.ReadAll(src)
		if readErr != nil {
			return NewInternalError("Failed to read upload", readErr)
		}
		result = importer.ImportCSVData(data)
	default:
		return NewValidationError("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(fileHeader.Filename))
	}

	if len(result.Boxes) == 0 && len(result.Errors) > 0 {
		return NewValidationError("import failed: %s", strings.Join(result.Errors, "; "))
	}
	return c.JSON(http.StatusOK, result)
}

// PlanRequest is the payload of POST /api/plans.
type PlanRequest struct {
	Name string `json:"name"`
	OptimizeRequest
}

// HandleSavePlan runs the engine and stores the request with its result
// as a named plan.
func (h *Handler) HandleSavePlan(c echo.Context) error {
	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid request body", err)
	}
	if req.Name == "" {
		return NewValidationError("plan name is required")
	}
	if apiErr := req.Validate(h.maxBoxes); apiErr != nil {
		return apiErr
	}

	opt := engine.New(req.Settings.ToSettings())
	result, err := opt.Optimize(req.Bed.ToBed(), req.ToBoxes())
	if err != nil {
		return NewValidationError("%s", err.Error())
	}

	plan := model.NewPlan(req.Name, req.Bed.ToBed(), req.ToBoxes(), req.Settings.ToSettings(), result)
	if err := h.plans.Save(plan); err != nil {
		return NewInternalError("Failed to save plan", err)
	}
	return c.JSON(http.StatusCreated, plan)
}

// HandleListPlans returns all stored plans.
func (h *Handler) HandleListPlans(c echo.Context) error {
	plans, err := h.plans.List()
	if err != nil {
		return NewInternalError("Failed to list plans", err)
	}
	return c.JSON(http.StatusOK, plans)
}

// HandleGetPlan returns one stored plan by id.
func (h *Handler) HandleGetPlan(c echo.Context) error {
	id := c.Param("id")
	plan, err := h.plans.Load(id)
	if err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError("plan", id)
		}
		return NewInternalError("Failed to load plan", err)
	}
	return c.JSON(http.StatusOK, plan)
}

// HandleDeletePlan removes a stored plan.
func (h *Handler) HandleDeletePlan(c echo.Context) error {
	id := c.Param("id")
	if err := h.plans.Delete(id); err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError("plan", id)
		}
		return NewInternalError("Failed to delete plan", err)
	}
	return c.NoContent(http.StatusNoContent)
}
