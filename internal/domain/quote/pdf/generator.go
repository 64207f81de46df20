package pdf

import "github.com/Additional-Code/funerarias/internal/domain/quote"

// Generator renders a document as PDF bytes.
type Generator interface {
	Generate(doc quote.Document) ([]byte, error)
}
