package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"oscehub/internal/config"
	"oscehub/internal/domain"
	"oscehub/internal/handler"
	"oscehub/internal/service"
	"oscehub/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(ingest *mocks.MockIngestService, publish *mocks.MockPublishService) *gin.Engine {
	h := handler.NewBatchHandler(ingest, publish, config.UploadConfig{MaxFileSizeMB: 1})
	r := gin.New()
	v1 := r.Group("/api/v1")
	batches := v1.Group("/batches")
	batches.POST("", h.Create)
	batches.GET("/:id", h.Get)
	batches.POST("/:id/publish", h.Publish)
	batches.GET("/:id/export", h.ExportCSV)
	return r
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreate_Success(t *testing.T) {
	ingest := &mocks.MockIngestService{}
	batch := &domain.ExtractionBatch{ID: uuid.New()}
	ingest.On("IngestBatch", mock.Anything, mock.MatchedBy(func(files []service.IngestFile) bool {
		return len(files) == 1 && files[0].Name == "stations.txt"
	})).Return(batch, nil)

	r := newTestRouter(ingest, &mocks.MockPublishService{})

	body, contentType := multipartUpload(t, map[string]string{"stations.txt": "Station 1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	ingest.AssertExpectations(t)
}

func TestCreate_MissingFiles(t *testing.T) {
	r := newTestRouter(&mocks.MockIngestService{}, &mocks.MockPublishService{})

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_FILES", resp.Error.Code)
}

func TestCreate_FileTooLarge(t *testing.T) {
	r := newTestRouter(&mocks.MockIngestService{}, &mocks.MockPublishService{})

	big := make([]byte, 2*1024*1024)
	body, contentType := multipartUpload(t, map[string]string{"huge.pdf": string(big)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
}

func TestGet_Success(t *testing.T) {
	ingest := &mocks.MockIngestService{}
	batch := &domain.ExtractionBatch{ID: uuid.New(), AnyErrors: true}
	ingest.On("GetBatch", batch.ID).Return(batch, nil)

	r := newTestRouter(ingest, &mocks.MockPublishService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batch.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestGet_NotFound(t *testing.T) {
	ingest := &mocks.MockIngestService{}
	id := uuid.New()
	ingest.On("GetBatch", id).Return(nil, domain.ErrBatchNotFound)

	r := newTestRouter(ingest, &mocks.MockPublishService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BATCH_NOT_FOUND", resp.Error.Code)
}

func TestGet_InvalidID(t *testing.T) {
	r := newTestRouter(&mocks.MockIngestService{}, &mocks.MockPublishService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestPublish_Success(t *testing.T) {
	publish := &mocks.MockPublishService{}
	id := uuid.New()
	summary := &domain.PublishSummary{
		BatchID:  id,
		Outcome:  domain.OutcomeAllSucceeded,
		Upserted: 2,
	}
	publish.On("PublishBatch", mock.Anything, id).Return(summary, nil)

	r := newTestRouter(&mocks.MockIngestService{}, publish)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/"+id.String()+"/publish", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	publish.AssertExpectations(t)
}

func TestPublish_NoRecords(t *testing.T) {
	publish := &mocks.MockPublishService{}
	id := uuid.New()
	publish.On("PublishBatch", mock.Anything, id).Return(nil, domain.ErrNoRecords)

	r := newTestRouter(&mocks.MockIngestService{}, publish)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/"+id.String()+"/publish", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_RECORDS", resp.Error.Code)
}

func TestExportCSV(t *testing.T) {
	ingest := &mocks.MockIngestService{}
	batch := &domain.ExtractionBatch{ID: uuid.New()}
	rec1 := domain.StationRecord{StationName: "Chest Pain", Category: "Cardio"}
	rec1.ID = rec1.Identity()
	batch.Records = append(batch.Records, rec1)
	ingest.On("GetBatch", batch.ID).Return(batch, nil)

	r := newTestRouter(ingest, &mocks.MockPublishService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batch.ID.String()+"/export", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Chest Pain")
	assert.Contains(t, rec.Body.String(), "Record ID")
}
