// Package request parses path, query and multipart input shared by the HTTP
// handlers.
package request

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/storage"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

// ParamID parses a positive int64 path parameter.
func ParamID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.BadRequest("invalid "+name, errorbank.WithDetail("param", name))
	}
	return id, nil
}

// Page reads limit and offset query parameters. Missing values stay zero so
// the service applies its defaults.
func Page(c echo.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// Bool reads a boolean query parameter, false when absent.
func Bool(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errorbank.BadRequest("invalid "+name, errorbank.WithDetail("param", name))
	}
	return v, nil
}

// IDs parses a comma-separated id list such as ?ids=1,2,3.
func IDs(c echo.Context, name string) ([]int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, errorbank.BadRequest("invalid "+name, errorbank.WithDetail("value", p))
		}
		out = append(out, id)
	}
	return out, nil
}

// Bind decodes the request body into dst.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}
	return nil
}

// Files tracks opened multipart parts so handlers can close them in one call.
type Files struct {
	open []multipart.File
}

// Upload opens the named multipart file. A missing field yields nil.
func (f *Files) Upload(c echo.Context, field string) (*storage.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errorbank.BadRequest("invalid upload", errorbank.WithCause(err), errorbank.WithDetail("field", field))
	}
	file, err := fh.Open()
	if err != nil {
		return nil, errorbank.BadRequest("invalid upload", errorbank.WithCause(err), errorbank.WithDetail("field", field))
	}
	f.open = append(f.open, file)
	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	}, nil
}

// Close releases every opened part.
func (f *Files) Close() {
	for _, file := range f.open {
		_ = file.Close()
	}
	f.open = nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errorbank.BadRequest("invalid "+name, errorbank.WithDetail("param", name))
	}
	return v, nil
}
