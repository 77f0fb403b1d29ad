package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/application/qa"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
)

// QAHandler serves question answering and full-text search.
type QAHandler struct {
	svc qa.Service
}

// NewQAHandler wires the handler to the QA service.
func NewQAHandler(svc qa.Service) *QAHandler {
	return &QAHandler{svc: svc}
}

type askRequest struct {
	Question   string    `json:"question" binding:"required"`
	DocumentID uuid.UUID `json:"document_id"`
}

// Ask answers a question over the corpus, or over one document when
// document_id is given.
// POST /api/v1/qa/ask
func (h *QAHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "question is required")
		return
	}
	answer, err := h.svc.Ask(c.Request.Context(), qa.AskInput{
		Question:   req.Question,
		DocumentID: req.DocumentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Search runs a full-text query over indexed documents.
// GET /api/v1/search?q=...&doc_type=...&size=...
func (h *QAHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondValidation(c, "q is required")
		return
	}
	size := 0
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondValidation(c, "size must be a non-negative integer")
			return
		}
		size = n
	}
	result, err := h.svc.Search(c.Request.Context(), opensearch.SearchRequest{
		Query:   query,
		DocType: c.Query("doc_type"),
		Size:    size,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
