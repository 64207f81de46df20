package gofpdf

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf"
)

// Module provides the gofpdf document generator.
var Module = fx.Provide(fx.Annotate(New, fx.As(new(pdf.Generator))))
