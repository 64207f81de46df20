package rut

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
	"github.com/Additional-Code/funerarias/pkg/rut"
)

// Register mounts the public RUT check.
func Register(r *httpserver.Routes) {
	r.Public.POST("/rut/validate", validate)
}

// validate always answers 200 for a well-formed request; validity is part of
// the payload.
func validate(c echo.Context) error {
	b := response.New(c)

	var payload dto.RUTRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	if payload.RUT == "" {
		return b.WithError(errorbank.BadRequest("rut is required")).Build()
	}
	return b.WithData(Check(payload.RUT)).Build()
}

// Check validates and formats raw. CheckDigit is the expected check
// character whenever the body is numeric, so clients can hint a typo.
func Check(raw string) dto.RUTResponse {
	out := dto.RUTResponse{Input: raw}
	if body, _, ok := rut.Split(raw); ok {
		out.CheckDigit, _ = rut.CheckDigit(body)
	}
	if formatted, err := rut.Format(raw); err == nil {
		out.Valid = true
		out.Formatted = formatted
	}
	return out
}
