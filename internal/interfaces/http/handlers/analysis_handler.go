package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/turtacn/DocLens-Intelligence/internal/application/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// AnalysisHandler serves the /api/v1/analyses resource.
type AnalysisHandler struct {
	svc    app.Service
	logger logging.Logger
}

// NewAnalysisHandler wires an AnalysisHandler.
func NewAnalysisHandler(svc app.Service, logger logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logger}
}

// SubmitRequest is the body of POST /api/v1/analyses.
type SubmitRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
	Async    bool   `json:"async"`
}

// Submit accepts a document for analysis.  Synchronous submissions return
// the completed record; asynchronous ones return 202 with a pending record.
func (h *AnalysisHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body").WithCause(err))
		return
	}

	out, err := h.svc.Submit(c.Request.Context(), &app.SubmitInput{
		Text:     req.Text,
		Language: req.Language,
		Async:    req.Async,
	})
	if err != nil {
		h.logger.Error("submit analysis", logging.Err(err))
		respondError(c, err)
		return
	}

	switch {
	case out.Reused:
		c.JSON(http.StatusOK, out)
	case req.Async:
		c.JSON(http.StatusAccepted, out)
	default:
		c.JSON(http.StatusCreated, out)
	}
}

// Get returns one analysis record by id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// List returns a page of records, optionally filtered by status and
// language query parameters.
func (h *AnalysisHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	out, err := h.svc.List(c.Request.Context(), &app.ListInput{
		Status:   c.Query("status"),
		Language: c.Query("language"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Search queries the full-text index of completed analyses.
func (h *AnalysisHandler) Search(c *gin.Context) {
	page, pageSize := parsePagination(c)
	out, err := h.svc.Search(c.Request.Context(), &app.SearchInput{
		Query:    c.Query("q"),
		Language: c.Query("language"),
		Intent:   c.Query("intent"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("search analyses", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
