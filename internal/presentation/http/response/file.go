package response

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// PDF streams a rendered document as an attachment.
func PDF(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// Page renders one page of a list with the total row count as metadata.
func (b *Builder) Page(data any, total int) error {
	return b.WithData(data).WithMeta("total", total).Build()
}
