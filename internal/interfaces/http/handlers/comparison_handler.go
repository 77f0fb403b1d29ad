package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/application/comparison"
)

// ComparisonHandler serves the document comparison endpoints.
type ComparisonHandler struct {
	svc comparison.Service
}

// NewComparisonHandler wires the handler to the comparison service.
func NewComparisonHandler(svc comparison.Service) *ComparisonHandler {
	return &ComparisonHandler{svc: svc}
}

type compareRequest struct {
	DocumentID1 uuid.UUID `json:"document_id_1" binding:"required"`
	DocumentID2 uuid.UUID `json:"document_id_2" binding:"required"`
	Provision   string    `json:"provision"`
}

func bindCompare(c *gin.Context) (*compareRequest, bool) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "document_id_1 and document_id_2 are required")
		return nil, false
	}
	return &req, true
}

// Sections compares the two documents section by section.
// POST /api/v1/compare/sections
func (h *ComparisonHandler) Sections(c *gin.Context) {
	req, ok := bindCompare(c)
	if !ok {
		return
	}
	result, err := h.svc.CompareSections(c.Request.Context(), req.DocumentID1, req.DocumentID2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Provision compares one named provision across the two documents.
// POST /api/v1/compare/provision
func (h *ComparisonHandler) Provision(c *gin.Context) {
	req, ok := bindCompare(c)
	if !ok {
		return
	}
	result, err := h.svc.CompareProvision(c.Request.Context(), req.DocumentID1, req.DocumentID2, req.Provision)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Whole compares the two documents as a whole: similarity score, line
// diff, and shared citations.
// POST /api/v1/compare/whole
func (h *ComparisonHandler) Whole(c *gin.Context) {
	req, ok := bindCompare(c)
	if !ok {
		return
	}
	result, err := h.svc.CompareWhole(c.Request.Context(), req.DocumentID1, req.DocumentID2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
