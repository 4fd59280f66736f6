package handlers

import (
	"net/http"

	"carehq/internal/common"
	"carehq/internal/middleware"
	"carehq/internal/models"
	"carehq/internal/services"
	"carehq/pkg/pagination"

	"github.com/labstack/echo/v4"
)

// DocumentHandlers handles HTTP requests for care documents. Uploads are
// multipart; content goes to object storage and only metadata is returned.
type DocumentHandlers struct {
	documentService services.DocumentService
}

func NewDocumentHandlers(documentService services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documentService: documentService}
}

// UploadDocument handles POST /v1/documents. Expects a multipart form with
// a "file" part plus "title", "category" and optional "resident_id" fields.
func (h *DocumentHandlers) UploadDocument(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.RespondError(c, common.NewValidationError("file", "file part is required"))
	}

	document := &models.Document{
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
	}
	if residentID, err := optionalUUID(c.FormValue("resident_id"), "resident_id"); err != nil {
		return common.RespondError(c, err)
	} else if residentID != nil {
		document.ResidentID = residentID
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.RespondError(c, err)
	}
	defer src.Close()

	rec := &middleware.ChangeRecord{TableName: "documents", Action: models.ActionCreate}
	middleware.RecordChange(c, rec)

	if err := h.documentService.Create(c.Request().Context(), tenantID, userID, document, src); err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = document.ID.String()
	rec.NewValues = models.JSONB{
		"title":      document.Title,
		"category":   document.Category,
		"size_bytes": document.SizeBytes,
	}
	return c.JSON(http.StatusCreated, document)
}

// GetDocument handles GET /v1/documents/:id
func (h *DocumentHandlers) GetDocument(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	document, err := h.documentService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, document)
}

// DownloadDocument handles GET /v1/documents/:id/download. The response is
// a short-lived presigned URL rather than the content itself.
func (h *DocumentHandlers) DownloadDocument(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	url, err := h.documentService.DownloadURL(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

type documentUpdateRequest struct {
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	ResidentID *string `json:"resident_id"`
	Status     string  `json:"status"`
	Version    int     `json:"version"`
}

// UpdateDocument handles PUT /v1/documents/:id. Only metadata changes;
// content is immutable once uploaded.
func (h *DocumentHandlers) UpdateDocument(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req documentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	document := &models.Document{
		ID:       id,
		Title:    req.Title,
		Category: req.Category,
		Status:   models.Status(req.Status),
		Version:  req.Version,
	}
	if req.ResidentID != nil {
		residentID, err := optionalUUID(*req.ResidentID, "resident_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		document.ResidentID = residentID
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "documents",
		RecordID:  id.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{"status": document.Status, "version": document.Version},
	})

	if err := h.documentService.Update(c.Request().Context(), tenantID, userID, document); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.documentService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListDocuments handles GET /v1/documents
func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	filter := &models.DocumentFilter{Limit: p.Limit, Offset: p.Offset}
	if residentID, err := optionalUUID(c.QueryParam("resident_id"), "resident_id"); err != nil {
		return common.RespondError(c, err)
	} else if residentID != nil {
		filter.ResidentID = residentID
	}
	if raw := c.QueryParam("category"); raw != "" {
		if err := common.ValidateEnum(raw, "category", models.DocumentCategories()...); err != nil {
			return common.RespondError(c, err)
		}
		filter.Category = &raw
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.Status(raw)
		if !models.ValidStatus(raw) {
			return common.RespondError(c, common.NewValidationError("status", "unknown status"))
		}
		filter.Status = &status
	}

	documents, err := h.documentService.List(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	if documents == nil {
		documents = []*models.Document{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(documents, p, len(documents)))
}

// ArchiveDocument handles DELETE /v1/documents/:id. Content stays in
// object storage for retention; only the record is archived.
func (h *DocumentHandlers) ArchiveDocument(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "documents",
		RecordID:  id.String(),
		Action:    models.ActionArchive,
	})

	if err := h.documentService.Archive(c.Request().Context(), tenantID, userID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
