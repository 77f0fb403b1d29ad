package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
)

// DocumentHandler serves the document lifecycle endpoints.
type DocumentHandler struct {
	svc ingest.Service
}

// NewDocumentHandler wires the handler to the ingest service.
func NewDocumentHandler(svc ingest.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type uploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	DocType  string `json:"doc_type"`
	Text     string `json:"text" binding:"required"`
}

// Upload ingests a new document.
// POST /api/v1/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "filename and text are required")
		return
	}

	doc, err := h.svc.Ingest(c.Request.Context(), &ingest.Input{
		Filename: req.Filename,
		DocType:  req.DocType,
		Text:     req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// List returns a page of stored documents without their bodies.
// GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	result, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one document including its text.
// GET /api/v1/documents/:documentID
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	doc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete removes a document and its derived data.
// DELETE /api/v1/documents/:documentID
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
