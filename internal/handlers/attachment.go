package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/services"
)

// AttachmentHandler is the Attachment Intake surface: raw files in,
// structured attachment records (with any extracted text) plus per-file
// warnings out.
type AttachmentHandler struct {
	log         *logger.Logger
	attachments services.AttachmentService
}

func NewAttachmentHandler(log *logger.Logger, attachments services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		log:         log.With("handler", "AttachmentHandler"),
		attachments: attachments,
	}
}

type intakeResponse struct {
	Attachments []domain.Attachment `json:"attachments"`
	Warnings    []services.Warning  `json:"warnings"`
}

func (h *AttachmentHandler) Intake(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm

	alreadyAttached := 0
	if form != nil {
		if v := form.Value["already_attached"]; len(v) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(v[0]))
			if err != nil || n < 0 {
				RespondError(c, http.StatusBadRequest, "invalid_already_attached", err)
				return
			}
			alreadyAttached = n
		}
	}

	var fileHeaders []*multipart.FileHeader
	if form != nil {
		fileHeaders = form.File["files"]
	}
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "no_files", nil)
		return
	}

	uploads := make([]services.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		up, err := readUpload(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "unreadable_file", fmt.Errorf("file %q: %w", fh.Filename, err))
			return
		}
		uploads = append(uploads, up)
	}

	attachments, warnings := h.attachments.Assemble(c.Request.Context(), uploads, alreadyAttached)

	// Never null in the JSON body; the caller iterates both.
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	if warnings == nil {
		warnings = []services.Warning{}
	}
	RespondOK(c, intakeResponse{Attachments: attachments, Warnings: warnings})
}

func readUpload(fh *multipart.FileHeader) (services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.Upload{}, err
	}

	return services.Upload{
		FileName:     fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		SizeBytes:    int64(len(data)),
		Data:         data,
	}, nil
}
