package server

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"home-vault/internal/domain"
)

var errMalformedUpload = errors.New("malformed upload request")

type listRequest struct {
	Path  string
	Depth int
}

type uploadRequest struct {
	Path string
}

type downloadRequest struct {
	Path string
}

// queryParam возвращает значение параметра или def, если параметра нет вовсе.
// Явно переданная пустая строка остаётся пустой.
func queryParam(r *http.Request, name, def string) string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return def
	}
	return values[0]
}

func parseListRequest(r *http.Request) (listRequest, error) {
	req := listRequest{
		Path:  queryParam(r, QueryParamPath, DefaultListPath),
		Depth: DefaultDepth,
	}

	if err := domain.ValidatePath(req.Path); err != nil {
		return req, err
	}

	if raw := queryParam(r, QueryParamDepth, ""); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("depth '%s' is not an integer: %w", raw, domain.ErrInvalidDepth)
		}
		if depth < 0 {
			return req, fmt.Errorf("depth must be >= 0, got %d: %w", depth, domain.ErrInvalidDepth)
		}
		req.Depth = depth
	}

	return req, nil
}

func parseUploadRequest(r *http.Request) (uploadRequest, error) {
	req := uploadRequest{Path: queryParam(r, QueryParamPath, DefaultUploadPath)}
	if err := domain.ValidatePath(req.Path); err != nil {
		return req, err
	}
	return req, nil
}

func parseDownloadRequest(r *http.Request) (downloadRequest, error) {
	req := downloadRequest{Path: queryParam(r, QueryParamPath, "")}
	if strings.TrimSpace(req.Path) == "" {
		return req, fmt.Errorf("path cannot be blank: %w", domain.ErrInvalidPath)
	}
	if err := domain.ValidatePath(req.Path); err != nil {
		return req, err
	}
	return req, nil
}

// nextFilePart читает multipart поток до части с именем file, не буферизуя тело целиком.
func nextFilePart(r *http.Request) (*multipart.Part, string, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", fmt.Errorf("expected multipart/form-data body: %w", errMalformedUpload)
	}

	for {
		part, partErr := reader.NextPart()
		if partErr != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(partErr, &maxBytesErr) {
				return nil, "", fmt.Errorf("reading multipart body: %w", partErr)
			}
			return nil, "", fmt.Errorf("multipart field '%s' is required: %w", FormParamFile, errMalformedUpload)
		}
		if part.FormName() != FormParamFile {
			_ = part.Close()
			continue
		}

		name := rawFileName(part)
		if name == "" {
			_ = part.Close()
			return nil, "", fmt.Errorf("multipart field '%s' has no file name: %w", FormParamFile, errMalformedUpload)
		}
		return part, name, nil
	}
}

// rawFileName имя файла как его прислал клиент. Part.FileName() отрезает директории,
// а нам нужно увидеть "..", чтобы отклонить такое имя.
func rawFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get(HeaderDisposition))
	if err != nil {
		return part.FileName()
	}
	if name, ok := params["filename"]; ok {
		return name
	}
	return ""
}
