package service

import (
	"context"
	"fmt"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/port"
	"github.com/autobooks/dashboard-bfa-go/internal/resource"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultDocumentLimit is the per-account document cap.
const DefaultDocumentLimit = 3

const msgOnlyPDF = "Apenas arquivos PDF são permitidos."

// documentStore binds DocumentsAPI to one credential. Create looks the
// file body up by the placeholder id of the item being saved.
type documentStore struct {
	api     port.DocumentsAPI
	cred    *domain.Credential
	pending map[string]domain.Upload
}

func (s documentStore) List(ctx context.Context) ([]domain.UserDocument, error) {
	return s.api.ListDocuments(ctx, s.cred)
}

func (s documentStore) Create(ctx context.Context, d domain.UserDocument) (domain.UserDocument, error) {
	up, ok := s.pending[d.ID]
	if !ok {
		return domain.UserDocument{}, &domain.ErrValidation{Field: "file", Message: "Arquivo não encontrado."}
	}
	return s.api.UploadDocument(ctx, s.cred, up)
}

func (s documentStore) Update(context.Context, domain.UserDocument) (domain.UserDocument, error) {
	return domain.UserDocument{}, &domain.ErrConflict{Message: "Documentos não podem ser editados; envie um novo arquivo."}
}

func (s documentStore) Delete(ctx context.Context, id string) error {
	return s.api.DeleteDocument(ctx, s.cred, id)
}

// DocumentService manages the knowledge-base PDFs.
type DocumentService struct {
	api      port.DocumentsAPI
	docs     *resource.Registry[string, domain.UserDocument]
	limit    int
	sessions port.SessionCache
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDocumentService creates the document service. limit <= 0 uses the default.
func NewDocumentService(api port.DocumentsAPI, limit int, sessions port.SessionCache, metrics *observability.Metrics, logger *zap.Logger) *DocumentService {
	if limit <= 0 {
		limit = DefaultDocumentLimit
	}
	return &DocumentService{
		api:      api,
		docs:     resource.NewRegistry[string, domain.UserDocument](),
		limit:    limit,
		sessions: sessionsOrNoop(sessions),
		metrics:  metrics,
		logger:   logger,
	}
}

// Limit returns the per-account cap.
func (s *DocumentService) Limit() int { return s.limit }

func (s *DocumentService) manager(cred *domain.Credential, pending map[string]domain.Upload) *resource.Manager[string, domain.UserDocument] {
	store := documentStore{api: s.api, cred: cred, pending: pending}
	return resource.NewManager[string, domain.UserDocument]("Documento", store, s.docs.For(owner(cred)), domain.IsPlaceholderDocumentID)
}

// List returns the uploaded documents.
func (s *DocumentService) List(ctx context.Context, cred *domain.Credential) ([]domain.UserDocument, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.List")
	defer span.End()

	return s.manager(cred, nil).List(ctx)
}

// UploadBatch accepts PDFs in order until the account reaches the limit.
// Non-PDFs and files beyond the limit are rejected with a message; the
// accepted ones are uploaded one by one. When the account is already full
// the result comes with ErrLimitExceeded.
func (s *DocumentService) UploadBatch(ctx context.Context, cred *domain.Credential, files []domain.Upload) (*domain.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.UploadBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(files)))

	existing, err := s.manager(cred, nil).List(ctx)
	if err != nil {
		return nil, err
	}

	remaining := s.limit - len(existing)
	limitMsg := fmt.Sprintf("Você pode enviar no máximo %d arquivos.", s.limit)

	res := &domain.UploadResult{Uploaded: []domain.UserDocument{}}
	pending := make(map[string]domain.Upload)
	var queue []domain.UserDocument
	limitHit := false

	for _, f := range files {
		switch {
		case !f.IsPDF():
			res.Rejected = append(res.Rejected, domain.RejectedUpload{FileName: f.FileName, Reason: msgOnlyPDF})
		case len(queue) >= remaining:
			limitHit = true
			res.Rejected = append(res.Rejected, domain.RejectedUpload{FileName: f.FileName, Reason: limitMsg})
		default:
			placeholder := domain.UserDocument{ID: domain.NewPlaceholderDocumentID(), FileName: f.FileName}
			pending[placeholder.ID] = f
			queue = append(queue, placeholder)
		}
	}
	s.metrics.AddRejectedUploads(len(res.Rejected))

	m := s.manager(cred, pending)
	for _, doc := range queue {
		saved, err := m.Create(ctx, doc)
		if err != nil {
			s.logger.Warn("document upload failed",
				zap.String("user_id", owner(cred)),
				zap.String("file", doc.FileName),
				zap.Error(err),
			)
			res.Failed = append(res.Failed, domain.RejectedUpload{FileName: doc.FileName, Reason: domain.BackendMessage(err)})
			continue
		}
		res.Uploaded = append(res.Uploaded, saved)
	}
	res.Total = len(m.Items())

	switch {
	case len(res.Failed) > 0:
		res.Notice = domain.ErrorNotice(res.Failed[0].FileName + ": " + res.Failed[0].Reason)
	case limitHit:
		res.Notice = domain.ErrorNotice(limitMsg)
	case len(res.Rejected) > 0:
		res.Notice = domain.ErrorNotice(msgOnlyPDF)
	case len(res.Uploaded) > 0:
		res.Notice = domain.SuccessNotice("Documentos enviados com sucesso!")
	}

	if len(res.Uploaded) > 0 {
		s.sessions.Invalidate(ctx, owner(cred))
	}
	s.logger.Info("document batch processed",
		zap.String("user_id", owner(cred)),
		zap.Int("uploaded", len(res.Uploaded)),
		zap.Int("rejected", len(res.Rejected)),
		zap.Int("failed", len(res.Failed)),
	)

	if limitHit && len(queue) == 0 {
		return res, &domain.ErrLimitExceeded{Resource: "documents", Limit: s.limit}
	}
	return res, nil
}

// Delete removes a document after explicit confirmation.
func (s *DocumentService) Delete(ctx context.Context, cred *domain.Credential, id string, confirmed bool) error {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", id))

	if err := s.manager(cred, nil).Delete(ctx, id, confirmed); err != nil {
		return err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	return nil
}

// Drop forgets the local collection of userID.
func (s *DocumentService) Drop(userID string) {
	s.docs.Drop(userID)
}
