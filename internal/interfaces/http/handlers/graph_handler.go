package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/internal/application/graph"
)

// GraphHandler serves the citation extraction and citation graph
// endpoints.
type GraphHandler struct {
	svc graph.Service
}

// NewGraphHandler wires the handler to the graph service.
func NewGraphHandler(svc graph.Service) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// Citations extracts the citations of one document by category.
// GET /api/v1/documents/:documentID/citations
func (h *GraphHandler) Citations(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	extracted, err := h.svc.Extract(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, extracted)
}

// Report summarizes one document's citations.
// GET /api/v1/documents/:documentID/citations/report
func (h *GraphHandler) Report(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	report, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Rebuild reconstructs the citation graph from the stored corpus.
// POST /api/v1/graph/rebuild
func (h *GraphHandler) Rebuild(c *gin.Context) {
	summary, err := h.svc.Rebuild(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DocumentCitations returns the citations one document makes, read from
// the graph store.
// GET /api/v1/graph/documents/:name/citations
func (h *GraphHandler) DocumentCitations(c *gin.Context) {
	citations, err := h.svc.DocumentCitations(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": c.Param("name"), "citations": citations})
}

// CoCited returns the documents sharing citations with the given one.
// GET /api/v1/graph/documents/:name/co-cited
func (h *GraphHandler) CoCited(c *gin.Context) {
	related, err := h.svc.CoCited(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": c.Param("name"), "co_cited": related})
}

// TopCited returns the most-cited authorities across the corpus.
// GET /api/v1/graph/top-cited?limit=10
func (h *GraphHandler) TopCited(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondValidation(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	ranked, err := h.svc.TopCited(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_cited": ranked})
}
