package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/export"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
)

// SessionHeader identifies the client selection an upload belongs to. A new
// upload with the same value supersedes the previous one.
const SessionHeader = "X-Import-Session"

// DefaultMaxUploadBytes caps statement uploads when no limit is configured.
const DefaultMaxUploadBytes = 32 << 20

// ImportHandler handles HTTP requests for statement imports.
type ImportHandler struct {
	importService  *service.ImportService
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler. Uploads larger than
// maxUploadBytes are rejected; a non-positive value uses DefaultMaxUploadBytes.
func NewImportHandler(importService *service.ImportService, maxUploadBytes int64) *ImportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ImportHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST requests that process a statement for an account.
// The statement is sent as the multipart field "file"; the result is cached
// for review and returned with its summary.
//
// Endpoint: POST /api/import/account/{uuid}
// Request Body: multipart/form-data with field "file" (.csv or .xlsx)
// Response: 201 Created with ImportResult
// Error: 400 Bad Request if the upload is missing or too large
// Error: 404 Not Found if account not found
// Error: 409 Conflict if a newer upload superseded this one
// Error: 422 Unprocessable Entity if the statement cannot be imported
// Error: 500 Internal Server Error if processing fails
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	file, err := h.readUpload(w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}

	result, err := h.importService.Import(r.Context(), r.Header.Get(SessionHeader), accountID, file)
	if err != nil {
		respondImportError(w, err, apperrors.ErrFailedToProcessStatement)
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

func (h *ImportHandler) readUpload(w http.ResponseWriter, r *http.Request) (model.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return model.File{}, err
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp files only

	part, header, err := r.FormFile("file")
	if err != nil {
		return model.File{}, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return model.File{}, err
	}
	if len(data) == 0 {
		return model.File{}, errors.New("uploaded file is empty")
	}

	return model.File{Name: filepath.Base(header.Filename), Data: data}, nil
}

// GetImport handles GET requests for a cached import result.
//
// Endpoint: GET /api/import/{uuid}
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if import ID is invalid (validated by middleware)
// Error: 404 Not Found if the import does not exist or has expired
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) GetImport(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "uuid")

	result, err := h.importService.GetImport(r.Context(), importID)
	if err != nil {
		respondImportError(w, err, apperrors.ErrFailedToRetrieveImport)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Export handles GET requests downloading a cached import as the
// normalized activity CSV. Error rows become empty lines.
//
// Endpoint: GET /api/import/{uuid}/export
// Response: 200 OK with text/csv attachment "<statement>_processed.csv"
// Error: 400 Bad Request if import ID is invalid (validated by middleware)
// Error: 404 Not Found if the import does not exist or has expired
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) Export(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "uuid")

	if err := h.importService.ExportImport(r.Context(), importID, export.HTTPSaver{W: w}); err != nil {
		respondImportError(w, err, apperrors.ErrFailedToRetrieveImport)
		return
	}
}

// Commit handles POST requests that write the transactions of a cached import
// to the account history.
//
// Endpoint: POST /api/import/{uuid}/commit
// Response: 200 OK with CommitResult
// Error: 400 Bad Request if import ID is invalid (validated by middleware)
// Error: 404 Not Found if the import does not exist or has expired
// Error: 422 Unprocessable Entity if the import holds no transactions
// Error: 500 Internal Server Error if the commit fails
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "uuid")

	result, err := h.importService.CommitImport(r.Context(), importID)
	if err != nil {
		respondImportError(w, err, apperrors.ErrFailedToCommitImport)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Discard handles DELETE requests dropping a cached import.
//
// Endpoint: DELETE /api/import/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if import ID is invalid (validated by middleware)
// Error: 404 Not Found if the import does not exist or has expired
// Error: 500 Internal Server Error if deletion fails
func (h *ImportHandler) Discard(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "uuid")

	if err := h.importService.DiscardImport(r.Context(), importID); err != nil {
		respondImportError(w, err, apperrors.ErrFailedToRetrieveImport)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
