package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazenwkamel/StackTics/internal/model"
	"github.com/mazenwkamel/StackTics/internal/project"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	dir := t.TempDir()
	plans, err := project.NewStore(dir)
	require.NoError(t, err)
	return NewHandlers(&Dependencies{
		Plans:     plans,
		ExportDir: dir,
		MaxBoxes:  10,
		Version:   "test",
	})
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const optimizeBody = `{
	"bed": {"length": 200, "width": 150, "height": 60},
	"boxes": [
		{"id": "b1", "name": "Cooler", "length": 60, "width": 40, "height": 30, "weight": 12},
		{"id": "b2", "name": "Tent", "length": 70, "width": 25, "height": 25, "weight": 6}
	]
}`

func TestHandleHealth(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	c, rec := newJSONContext(e, http.MethodGet, "/health", "")
	require.NoError(t, h.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"app":"StackTics"`)
}

func TestHandleOptimize_PlacesBoxes(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	c, rec := newJSONContext(e, http.MethodPost, "/optimize", optimizeBody)
	require.NoError(t, h.HandleOptimize(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.OptimizeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Placements, 2)
	assert.Empty(t, result.UnplacedBoxIDs)
	assert.Equal(t, 2, result.Metrics.TotalBoxes)
	assert.Greater(t, result.Metrics.UsedVolumeRatio, 0.0)
}

func TestHandleOptimize_FillsDefaults(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	// Oversized optional box stays unplaced instead of failing.
	body := `{
		"bed": {"length": 100, "width": 100, "height": 30},
		"boxes": [{"id": "big", "name": "Wardrobe", "length": 300, "width": 300, "height": 300, "weight": 50}]
	}`
	c, rec := newJSONContext(e, http.MethodPost, "/optimize", body)
	require.NoError(t, h.HandleOptimize(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.OptimizeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Placements)
	assert.Equal(t, []string{"big"}, result.UnplacedBoxIDs)
}

func TestHandleOptimize_ValidationErrors(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "non-positive bed",
			body: `{"bed": {"length": 0, "width": 150, "height": 60}, "boxes": []}`,
			want: "bed dimensions",
		},
		{
			name: "duplicate box ids",
			body: `{"bed": {"length": 200, "width": 150, "height": 60}, "boxes": [
				{"id": "b1", "name": "A", "length": 10, "width": 10, "height": 10, "weight": 1},
				{"id": "b1", "name": "B", "length": 10, "width": 10, "height": 10, "weight": 1}]}`,
			want: "duplicate box id",
		},
		{
			name: "bad enum",
			body: `{"bed": {"length": 200, "width": 150, "height": 60}, "boxes": [
				{"id": "b1", "name": "A", "length": 10, "width": 10, "height": 10, "weight": 1, "fragility": "indestructible"}]}`,
			want: "fragility",
		},
		{
			name: "margins consume footprint",
			body: `{"bed": {"length": 20, "width": 20, "height": 60, "margin": 15}, "boxes": []}`,
			want: "usable space",
		},
		{
			name: "negative weight",
			body: `{"bed": {"length": 200, "width": 150, "height": 60}, "boxes": [
				{"id": "b1", "name": "A", "length": 10, "width": 10, "height": 10, "weight": -1}]}`,
			want: "weight",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(e, http.MethodPost, "/optimize", tc.body)
			err := h.HandleOptimize(c)
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
			assert.Contains(t, apiErr.Message, tc.want)
		})
	}
}

func TestHandleOptimize_BoxLimit(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	var boxes []string
	for i := 0; i < 11; i++ {
		boxes = append(boxes, fmt.Sprintf(`{"id": "b%d", "name": "Box", "length": 5, "width": 5, "height": 5, "weight": 1}`, i))
	}
	body := fmt.Sprintf(`{"bed": {"length": 200, "width": 150, "height": 60}, "boxes": [%s]}`, strings.Join(boxes, ","))

	c, _ := newJSONContext(e, http.MethodPost, "/optimize", body)
	err := h.HandleOptimize(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Contains(t, apiErr.Message, "too many boxes")
}

func TestHandleExport_UnknownFormat(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	c, _ := newJSONContext(e, http.MethodPost, "/api/export/webp", optimizeBody)
	c.SetParamNames("format")
	c.SetParamValues("webp")

	err := h.HandleExport(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestHandleExport_ReturnsAttachment(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	for _, format := range []string{"pdf", "labels", "xlsx", "dxf"} {
		t.Run(format, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPost, "/api/export/"+format, optimizeBody)
			c.SetParamNames("format")
			c.SetParamValues(format)

			require.NoError(t, h.HandleExport(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
			assert.Greater(t, rec.Body.Len(), 100)
		})
	}
}

func TestHandleImportBoxes_CSV(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "boxes.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Name,Length,Width,Height,Weight,Fragility\nCooler,60,40,35,8,robust\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/boxes/import", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandleImportBoxes(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Cooler"`)
	assert.Contains(t, rec.Body.String(), `"robust"`)
}

func TestHandleImportBoxes_UnsupportedType(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "boxes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/boxes/import", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = h.HandleImportBoxes(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestPlanLifecycle(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	// Save
	saveBody := `{"name": "camping",` + optimizeBody[1:]
	c, rec := newJSONContext(e, http.MethodPost, "/api/plans", saveBody)
	require.NoError(t, h.HandleSavePlan(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var plan model.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "camping", plan.Name)
	assert.NotEmpty(t, plan.ID)
	assert.Len(t, plan.Result.Placements, 2)

	// List
	c, rec = newJSONContext(e, http.MethodGet, "/api/plans", "")
	require.NoError(t, h.HandleListPlans(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), plan.ID)

	// Get
	c, rec = newJSONContext(e, http.MethodGet, "/api/plans/"+plan.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(plan.ID)
	require.NoError(t, h.HandleGetPlan(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Delete
	c, rec = newJSONContext(e, http.MethodDelete, "/api/plans/"+plan.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(plan.ID)
	require.NoError(t, h.HandleDeletePlan(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Gone
	c, _ = newJSONContext(e, http.MethodGet, "/api/plans/"+plan.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(plan.ID)
	err := h.HandleGetPlan(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestHandleSavePlan_RequiresName(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	c, _ := newJSONContext(e, http.MethodPost, "/api/plans", optimizeBody)
	err := h.HandleSavePlan(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Contains(t, apiErr.Message, "name")
}

func TestErrorHandlerEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(NewValidationError("bed dimensions must be positive"), c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION_ERROR"`)
	assert.Contains(t, rec.Body.String(), "bed dimensions must be positive")
}
