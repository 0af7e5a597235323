package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizconsole/internal/core/apperror"
	"bizconsole/internal/domain"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/http/v1/dto"
	"bizconsole/internal/infrastructure/pdf"
)

// DocumentHandler serves one document kind backed by a documents.Store.
type DocumentHandler struct {
	*BaseHandler
	store    *documents.Store
	renderer documents.Renderer
}

// NewDocumentHandler creates a handler for store. renderer may be nil, in
// which case the PDF endpoint answers 404.
func NewDocumentHandler(base *BaseHandler, store *documents.Store, renderer documents.Renderer) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: base,
		store:       store,
		renderer:    renderer,
	}
}

// List handles GET /{kind}?search=&status=
func (h *DocumentHandler) List(c *gin.Context) {
	var req dto.DocumentListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	status := documents.NormalizeStatus(documents.Status(req.Status))
	if status != "" && !h.store.Kind().Allows(status) {
		h.Error(c, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", req.Status))
		return
	}

	docs := h.store.Search(c.Request.Context(), req.Search, status)
	h.OK(c, domain.NewListResult(dto.FromDocuments(docs)))
}

// Create handles POST /{kind}
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.store.Create(c.Request.Context(), req.ToEntity(h.store.Kind()))
	if err != nil {
		h.Error(c, withUnsaved(err, doc))
		return
	}

	h.Created(c, dto.FromDocument(*doc))
}

// Get handles GET /{kind}/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.store.Get(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDocument(*doc))
}

// Update handles PUT /{kind}/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.store.Update(c.Request.Context(), docID, req.ToPatch())
	if err != nil {
		h.Error(c, withUnsaved(err, doc))
		return
	}
	// The store ignores unknown ids; over HTTP that is a 404.
	if doc == nil {
		h.Error(c, apperror.NewNotFound(h.store.Kind().Label(), docID))
		return
	}

	h.OK(c, dto.FromDocument(*doc))
}

// SetStatus handles PUT /{kind}/:id/status
func (h *DocumentHandler) SetStatus(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.store.SetStatus(c.Request.Context(), docID, documents.Status(req.Status))
	if err != nil {
		h.Error(c, withUnsaved(err, doc))
		return
	}
	if doc == nil {
		h.Error(c, apperror.NewNotFound(h.store.Kind().Label(), docID))
		return
	}

	h.OK(c, dto.FromDocument(*doc))
}

// Delete handles DELETE /{kind}/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	removed, err := h.store.Remove(c.Request.Context(), docID)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && removed && apperror.IsPersistenceFailure(err) {
			appErr.WithDetail("id", docID).WithDetail("removed", true)
		}
		h.Error(c, err)
		return
	}
	if !removed {
		h.Error(c, apperror.NewNotFound(h.store.Kind().Label(), docID))
		return
	}

	h.NoContent(c)
}

// PDF handles GET /{kind}/:id/pdf
func (h *DocumentHandler) PDF(c *gin.Context) {
	if h.renderer == nil {
		h.Error(c, apperror.NewNotFound("renderer", "pdf"))
		return
	}

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.store.Get(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	body, err := h.renderer.Render(c.Request.Context(), *doc)
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("render %s: %w", doc.Number, err)))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.Filename(*doc)))
	c.Data(http.StatusOK, h.renderer.ContentType(), body)
}

// withUnsaved attaches the document to a persistence failure. The change is
// already applied in memory, so the client gets the state it produced.
func withUnsaved(err error, doc *documents.Document) error {
	appErr, ok := apperror.AsAppError(err)
	if !ok || doc == nil || !apperror.IsPersistenceFailure(err) {
		return err
	}
	return appErr.WithDetail("document", dto.FromDocument(*doc))
}
