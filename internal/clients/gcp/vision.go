package gcp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
)

// VisionService runs document text detection on raw image bytes. Recognition
// latency is materially higher than the other extraction strategies, so every
// call is bounded and cancellable through its context.
type VisionService interface {
	RecognizeImage(ctx context.Context, img []byte) (string, error)
	Close() error
}

type visionService struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient

	languageHints []string
	callTimeout   time.Duration
}

func NewVisionService(ctx context.Context, log *logger.Logger) (VisionService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "VisionService")

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))

	var (
		client *vision.ImageAnnotatorClient
		err    error
	)
	if creds != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(creds))
	} else {
		// ADC (Cloud Run / GKE with an attached service account)
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	hints := splitHints(utils.GetEnv("OCR_LANGUAGE_HINTS", "es", slog))
	timeoutSec := utils.GetEnvAsInt("OCR_TIMEOUT_SECONDS", 60, slog)

	return &visionService{
		log:           slog,
		client:        client,
		languageHints: hints,
		callTimeout:   time.Duration(timeoutSec) * time.Second,
	}, nil
}

func splitHints(raw string) []string {
	parts := strings.Split(raw, ",")
	hints := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hints = append(hints, p)
		}
	}
	return hints
}

func (s *visionService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *visionService) RecognizeImage(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	vimg, err := vision.NewImageFromReader(bytes.NewReader(img))
	if err != nil {
		return "", fmt.Errorf("vision NewImageFromReader: %w", err)
	}

	var ictx *visionpb.ImageContext
	if len(s.languageHints) > 0 {
		ictx = &visionpb.ImageContext{LanguageHints: s.languageHints}
	}

	start := time.Now()
	doc, err := s.client.DetectDocumentText(ctx, vimg, ictx)
	if err != nil {
		return "", fmt.Errorf("vision DetectDocumentText: %w", err)
	}
	s.log.Debug("OCR completed",
		"bytes", len(img),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if doc == nil {
		return "", nil
	}
	return strings.TrimSpace(doc.GetText()), nil
}
