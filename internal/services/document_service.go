package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxDocumentSize = 25 << 20 // 25 MiB

type DocumentService interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, document *models.Document, content io.Reader) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Document, error)
	// DownloadURL returns a short-lived presigned URL for the document content.
	DownloadURL(ctx context.Context, tenantID, id uuid.UUID) (string, error)
	Update(ctx context.Context, tenantID, actorID uuid.UUID, document *models.Document) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.DocumentFilter) ([]*models.Document, error)
	Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	residentRepo repositories.ResidentRepository
	storage      StorageService
}

func NewDocumentService(documentRepo repositories.DocumentRepository, residentRepo repositories.ResidentRepository, storage StorageService) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		residentRepo: residentRepo,
		storage:      storage,
	}
}

func (s *documentService) validate(document *models.Document) error {
	if err := common.ValidateRequiredString(document.Title, "title"); err != nil {
		return err
	}
	return common.ValidateEnum(document.Category, "category", models.DocumentCategories()...)
}

func (s *documentService) Create(ctx context.Context, tenantID, actorID uuid.UUID, document *models.Document, content io.Reader) error {
	if err := s.validate(document); err != nil {
		return err
	}
	if document.SizeBytes <= 0 || document.SizeBytes > maxDocumentSize {
		return common.NewValidationError("size_bytes", fmt.Sprintf("must be between 1 and %d bytes", maxDocumentSize))
	}
	if document.ResidentID != nil {
		if _, err := s.residentRepo.GetByID(ctx, tenantID, *document.ResidentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NewValidationError("resident_id", "resident does not exist")
			}
			return err
		}
	}

	document.ID = uuid.New()
	document.TenantID = tenantID
	document.ObjectKey = fmt.Sprintf("%s/%s", tenantID, document.ID)
	document.Status = models.StatusDraft
	document.Version = 1
	document.CreatedBy = actorID
	document.UpdatedBy = actorID

	if err := s.storage.Upload(ctx, document.ObjectKey, content, document.SizeBytes, document.ContentType); err != nil {
		return err
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		// Metadata write failed; don't strand the blob.
		_ = s.storage.Remove(ctx, document.ObjectKey)
		return err
	}
	return nil
}

func (s *documentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("document", err)
	}
	return document, nil
}

func (s *documentService) DownloadURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	document, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(ctx, document.ObjectKey, 15*time.Minute)
}

func (s *documentService) Update(ctx context.Context, tenantID, actorID uuid.UUID, document *models.Document) error {
	if err := s.validate(document); err != nil {
		return err
	}

	current, err := s.documentRepo.GetByID(ctx, tenantID, document.ID)
	if err != nil {
		return notFoundOrErr("document", err)
	}

	if err := validateTransition(current.Status, document.Status); err != nil {
		return err
	}

	document.TenantID = tenantID
	document.UpdatedBy = actorID
	affected, err := s.documentRepo.Update(ctx, document)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.documentRepo.GetByID(ctx, tenantID, document.ID); err != nil {
			return notFoundOrErr("document", err)
		}
		return &common.ConflictError{Resource: "document"}
	}
	return nil
}

func (s *documentService) List(ctx context.Context, tenantID uuid.UUID, filter *models.DocumentFilter) ([]*models.Document, error) {
	p := pagination.Clamp(filter.Limit, filter.Offset)
	filter.Limit, filter.Offset = p.Limit, p.Offset
	return s.documentRepo.List(ctx, tenantID, filter)
}

func (s *documentService) Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	current, err := s.documentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return notFoundOrErr("document", err)
	}
	if current.Status == models.StatusArchived {
		return &common.InvalidTransitionError{From: string(models.StatusArchived), To: string(models.StatusArchived)}
	}

	// The blob stays; archiving is a metadata state change so the audit trail
	// keeps its subject.
	current.Status = models.StatusArchived
	current.UpdatedBy = actorID
	affected, err := s.documentRepo.Update(ctx, current)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &common.ConflictError{Resource: "document"}
	}
	return nil
}
