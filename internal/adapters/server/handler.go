package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"home-vault/internal/domain"
	"home-vault/internal/metrics"
)

type Handler struct {
	uc            domain.VaultService
	maxUploadSize int64
}

type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewHandler(uc domain.VaultService, maxUploadSize int64) *Handler {
	return &Handler{
		uc:            uc,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.handleError(w, r, OperationList, err)
		return
	}

	listing, err := h.uc.List(req.Path, req.Depth)
	if err != nil {
		h.handleError(w, r, OperationList, err)
		return
	}

	metrics.RecordListing(len(listing.Items))
	requestLogger(r).WithFields(logrus.Fields{
		"operation": OperationList,
		"path":      req.Path,
		"depth":     req.Depth,
		"items":     len(listing.Items),
	}).Debug(LogDirectoryListed)

	writeJSON(w, r, http.StatusOK, listing)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := parseUploadRequest(r)
	if err != nil {
		h.handleError(w, r, OperationUpload, err)
		return
	}

	// ContentLength может быть -1 при chunked-передаче, тогда лимит сработает в maxBytesMiddleware.
	if r.ContentLength > h.maxUploadSize {
		h.handleError(w, r, OperationUpload, fmt.Errorf("request size %d exceeds maximum %d: %w",
			r.ContentLength, h.maxUploadSize, domain.ErrUploadTooLarge))
		return
	}

	part, filename, err := nextFilePart(r)
	if err != nil {
		h.handleError(w, r, OperationUpload, err)
		return
	}
	defer part.Close()

	result, err := h.uc.Upload(req.Path, filename, part)
	if err != nil {
		h.handleError(w, r, OperationUpload, err)
		return
	}

	metrics.RecordUpload(result.Size)
	requestLogger(r).WithFields(logrus.Fields{
		"operation": OperationUpload,
		"path":      result.Path,
		"size":      result.Size,
	}).Info(LogFileUploaded)

	writeJSON(w, r, http.StatusCreated, result)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	req, err := parseDownloadRequest(r)
	if err != nil {
		h.handleError(w, r, OperationDownload, err)
		return
	}

	file, err := h.uc.Download(req.Path)
	if err != nil {
		h.handleError(w, r, OperationDownload, err)
		return
	}
	defer func() {
		if closeErr := file.Content.Close(); closeErr != nil {
			requestLogger(r).Warnf("Failed to close %s: %v", req.Path, closeErr)
		}
	}()

	// Content-Type выставлен заранее, поэтому ServeContent не будет угадывать его по расширению.
	w.Header().Set("Content-Type", domain.MIMEOctetStream)
	w.Header().Set(HeaderDisposition, contentDisposition(file.Name))

	// HEAD и Range отдают меньше файла, считаем только реально записанное тело.
	cw := &countingWriter{ResponseWriter: w}
	http.ServeContent(cw, r, file.Name, file.LastModified, file.Content)

	metrics.RecordDownload(cw.written)
	requestLogger(r).WithFields(logrus.Fields{
		"operation": OperationDownload,
		"path":      req.Path,
		"size":      file.Size,
		"sent":      cw.written,
	}).Info(LogFileDownloaded)
}

type countingWriter struct {
	http.ResponseWriter
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.ResponseWriter.Write(p)
	c.written += int64(n)
	return n, err
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// contentDisposition кодирует имя по RFC 5987, пробелы как %20, а не "+".
func contentDisposition(name string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return fmt.Sprintf(DispositionTemplate, encoded)
}

type errorType int

const (
	errorTypeBadRequest errorType = iota
	errorTypeNotFound
	errorTypeTooLarge
	errorTypeInternal
)

// getErrorType сопоставляет доменные ошибки с HTTP-кодами статуса.
// Ошибки ввода-вывода при загрузке отдаются как 400, клиенты API на это рассчитывают.
func (h *Handler) getErrorType(operation string, err error) errorType {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr) || errors.Is(err, domain.ErrUploadTooLarge):
		return errorTypeTooLarge
	case errors.Is(err, domain.ErrInvalidPath) || errors.Is(err, domain.ErrInvalidFilename) ||
		errors.Is(err, domain.ErrInvalidDepth) || errors.Is(err, errMalformedUpload):
		return errorTypeBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return errorTypeNotFound
	case errors.Is(err, domain.ErrIOFailure) && operation == OperationUpload:
		return errorTypeBadRequest
	default:
		return errorTypeInternal
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var httpStatus int

	switch h.getErrorType(operation, err) {
	case errorTypeBadRequest:
		httpStatus = http.StatusBadRequest
	case errorTypeNotFound:
		httpStatus = http.StatusNotFound
	case errorTypeTooLarge:
		httpStatus = http.StatusRequestEntityTooLarge
	case errorTypeInternal:
		httpStatus = http.StatusInternalServerError
	}

	if errors.Is(err, domain.ErrInvalidPath) {
		metrics.RecordRejectedPath(operation)
	}

	entry := requestLogger(r).WithFields(logrus.Fields{
		"operation": operation,
		"status":    httpStatus,
	})
	if httpStatus >= http.StatusInternalServerError {
		entry.Errorf("HTTP %d Error. Details: %+v", httpStatus, err)
	} else {
		entry.Warnf("HTTP %d Error. Details: %v", httpStatus, err)
	}

	writeJSON(w, r, httpStatus, errorResponse{
		Status:  httpStatus,
		Error:   http.StatusText(httpStatus),
		Message: clientMessage(err),
	})
}

// clientMessage не отдаёт наружу детали файловой системы (абсолютные пути, errno).
func clientMessage(err error) string {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("upload exceeds %d bytes: %s", maxBytesErr.Limit, domain.ErrUploadTooLarge)
	case errors.Is(err, domain.ErrIOFailure):
		return domain.ErrIOFailure.Error()
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", domain.MIMEJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		requestLogger(r).Warnf("Failed to encode response: %v", err)
	}
}
