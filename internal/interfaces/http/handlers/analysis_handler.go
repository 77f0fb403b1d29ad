package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/internal/application/analysis"
)

// AnalysisHandler serves the risk analysis and document insight endpoints.
type AnalysisHandler struct {
	svc analysis.Service
}

// NewAnalysisHandler wires the handler to the analysis service.
func NewAnalysisHandler(svc analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// Analyze runs (or serves the cached) risk analysis for a document.
// POST /api/v1/documents/:documentID/analysis
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	report, err := h.svc.Analyze(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// History lists prior analysis reports for a document, newest first.
// GET /api/v1/documents/:documentID/analysis/history
func (h *AnalysisHandler) History(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	reports, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Suggestions returns improvement advice derived from the risk analysis.
// GET /api/v1/documents/:documentID/suggestions
func (h *AnalysisHandler) Suggestions(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	sugg, err := h.svc.Suggestions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sugg)
}

// Details extracts parties, dates, and financial terms.
// GET /api/v1/documents/:documentID/details
func (h *AnalysisHandler) Details(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	details, err := h.svc.ContractDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Summary returns the structured document summary.
// GET /api/v1/documents/:documentID/summary
func (h *AnalysisHandler) Summary(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	summary, err := h.svc.Summarize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Section extracts one named section's text.
// GET /api/v1/documents/:documentID/sections/:name
func (h *AnalysisHandler) Section(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	name := c.Param("name")
	text, err := h.svc.ExtractSection(c.Request.Context(), id, name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": name, "text": text})
}

type classifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyClause labels a free-standing clause text.
// POST /api/v1/clauses/classify
func (h *AnalysisHandler) ClassifyClause(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "text is required")
		return
	}
	c.JSON(http.StatusOK, h.svc.ClassifyClause(req.Text))
}
