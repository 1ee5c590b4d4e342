package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/extract"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
)

// Upload is one raw file as it arrives from the intake surface.
type Upload struct {
	FileName     string
	DeclaredType string
	SizeBytes    int64
	Data         []byte
}

// Warning is a per-file admission notice meant for caller display. It is a
// degraded outcome, never an error: the rest of the batch keeps processing.
type Warning struct {
	FileName string `json:"file_name,omitempty"`
	Message  string `json:"message"`
}

type AttachmentService interface {
	// Assemble admits, encodes and text-extracts a batch of uploads.
	// alreadyAttached is how many files the caller holds for the pending
	// message before this batch.
	Assemble(ctx context.Context, uploads []Upload, alreadyAttached int) ([]domain.Attachment, []Warning)
}

type attachmentService struct {
	log       *logger.Logger
	extractor *extract.Service

	maxCount int
	maxBytes int64
}

func NewAttachmentService(log *logger.Logger, extractor *extract.Service) AttachmentService {
	slog := log.With("service", "AttachmentService")
	return &attachmentService{
		log:       slog,
		extractor: extractor,
		maxCount:  utils.GetEnvAsInt("MAX_ATTACHMENTS_PER_MESSAGE", 3, slog),
		maxBytes:  utils.GetEnvAsInt64("MAX_ATTACHMENT_SIZE_BYTES", 5*1024*1024, slog),
	}
}

func (s *attachmentService) Assemble(ctx context.Context, uploads []Upload, alreadyAttached int) ([]domain.Attachment, []Warning) {
	if len(uploads) == 0 {
		return nil, nil
	}

	// The count rule rejects the whole batch, never a prefix of it.
	if alreadyAttached+len(uploads) > s.maxCount {
		return nil, []Warning{{
			Message: fmt.Sprintf("Solo puedes adjuntar un máximo de %d archivos por mensaje.", s.maxCount),
		}}
	}

	var warnings []Warning
	attachments := make([]*domain.Attachment, 0, len(uploads))
	kinds := make([]extract.Kind, 0, len(uploads))
	payloads := make([][]byte, 0, len(uploads))

	for _, up := range uploads {
		if up.SizeBytes > s.maxBytes {
			warnings = append(warnings, Warning{
				FileName: up.FileName,
				Message:  fmt.Sprintf("El archivo %q es muy grande. Tamaño máximo: %dMB", up.FileName, s.maxBytes/(1024*1024)),
			})
			continue
		}

		att := &domain.Attachment{
			ID:           uuid.New(),
			FileName:     up.FileName,
			DeclaredType: up.DeclaredType,
			SizeBytes:    up.SizeBytes,
			Payload:      base64.StdEncoding.EncodeToString(up.Data),
		}
		attachments = append(attachments, att)
		kinds = append(kinds, extract.Classify(up.DeclaredType, up.FileName))
		payloads = append(payloads, up.Data)
	}

	// Extraction runs concurrently; each goroutine owns exactly one slot.
	g, gctx := errgroup.WithContext(ctx)
	for i := range attachments {
		if kinds[i] == extract.KindNone {
			continue
		}
		g.Go(func() error {
			att := attachments[i]
			text, err := s.extractor.Extract(gctx, kinds[i], payloads[i])
			if err != nil {
				// Degrade to "no extracted text"; the attachment stays usable.
				s.log.Warn("Text extraction failed",
					"attachment_id", att.ID,
					"file_name", att.FileName,
					"kind", kinds[i].String(),
					"error", err,
				)
				return nil
			}
			att.ExtractedText = text
			s.log.Debug("Text extracted",
				"attachment_id", att.ID,
				"file_name", att.FileName,
				"kind", kinds[i].String(),
				"chars", len(text),
			)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.Attachment, len(attachments))
	for i, att := range attachments {
		out[i] = *att
	}
	return out, warnings
}
