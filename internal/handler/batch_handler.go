package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oscehub/internal/config"
	"oscehub/internal/csvexport"
	"oscehub/internal/service"
)

// BatchHandler handles batch ingestion, preview, publish, and export endpoints.
type BatchHandler struct {
	ingest  service.IngestService
	publish service.PublishService
	upload  config.UploadConfig
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(ingest service.IngestService, publish service.PublishService, upload config.UploadConfig) *BatchHandler {
	return &BatchHandler{ingest: ingest, publish: publish, upload: upload}
}

// Create handles POST /api/v1/batches. It accepts a multipart form with a
// repeated "files" field, runs the extraction pipeline over every file in
// upload order, and returns the assembled batch for review. Per-file failures
// are reported inside the batch, not as an HTTP error.
func (h *BatchHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "expected multipart form")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files field is required")
		return
	}

	maxBytes := h.upload.MaxFileSizeMB * 1024 * 1024
	files := make([]service.IngestFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxBytes {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("%s exceeds the %dMB upload limit", header.Filename, h.upload.MaxFileSizeMB))
			return
		}
		f, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not open "+header.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read "+header.Filename)
			return
		}
		files = append(files, service.IngestFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	batch, err := h.ingest.IngestBatch(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, batch)
}

// Get handles GET /api/v1/batches/:id and returns the batch preview.
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return
	}

	batch, err := h.ingest.GetBatch(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, batch)
}

// Publish handles POST /api/v1/batches/:id/publish. This is the explicit
// confirmation gate: nothing reaches the store until this endpoint is called.
func (h *BatchHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return
	}

	summary, err := h.publish.PublishBatch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// ExportCSV handles GET /api/v1/batches/:id/export and streams the assembled
// records as a CSV attachment.
func (h *BatchHandler) ExportCSV(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return
	}

	batch, err := h.ingest.GetBatch(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="batch-%s.csv"`, id))

	w, err := csvexport.NewWriter(c.Writer)
	if err != nil {
		log.Printf("batchHandler.ExportCSV: %v", err)
		return
	}
	if err := w.WriteBatch(batch); err != nil {
		log.Printf("batchHandler.ExportCSV: writing batch %s: %v", id, err)
	}
}
