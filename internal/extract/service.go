package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
)

// OCRClient is the recognition boundary for the image strategy. The real
// implementation lives in internal/clients/gcp; tests inject a fake.
type OCRClient interface {
	RecognizeImage(ctx context.Context, img []byte) (string, error)
}

// Service dispatches an upload to the strategy matching its Kind. Strategies
// are independent: a failure on one attachment never affects another in the
// same batch.
type Service struct {
	log *logger.Logger
	ocr OCRClient
}

func NewService(log *logger.Logger, ocr OCRClient) *Service {
	return &Service{
		log: log.With("service", "ExtractService"),
		ocr: ocr,
	}
}

// Extract returns the text content of data for the given kind. KindNone and
// unknown kinds are a programming error on the caller's side and return an
// error rather than silently yielding empty text.
func (s *Service) Extract(ctx context.Context, kind Kind, data []byte) (string, error) {
	// The plain-text strategy never fails; an empty upload is just empty text.
	if kind == KindText {
		return ExtractText(data), nil
	}
	if len(data) == 0 {
		return "", fmt.Errorf("extract %s: empty input", kind)
	}
	switch kind {
	case KindImage:
		return s.extractImage(ctx, data)
	case KindDOCX:
		return ExtractDOCX(data)
	case KindPDF:
		return ExtractPDF(data)
	default:
		return "", fmt.Errorf("no extraction strategy for kind %q", kind)
	}
}

func (s *Service) extractImage(ctx context.Context, data []byte) (string, error) {
	if s.ocr == nil {
		return "", fmt.Errorf("ocr client not configured")
	}
	text, err := s.ocr.RecognizeImage(ctx, data)
	if err != nil {
		return "", fmt.Errorf("image ocr: %w", err)
	}
	return strings.TrimSpace(text), nil
}
