package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/pkg/rut"
)

var (
	ErrClientName = errors.New("client name is required")
	ErrClientRUT  = errors.New("client RUT is not valid")
	ErrTaxRate    = errors.New("tax rate must be between 0 and 100")
)

// Validate checks the parts of a quote or order that a save depends on.
// An empty item list yields lineitem.ErrEmpty.
func Validate(client entity.Client, items []lineitem.Item, taxRate float64) error {
	if err := lineitem.ValidateForSave(items); err != nil {
		return err
	}
	if strings.TrimSpace(client.Name) == "" {
		return ErrClientName
	}
	if client.RUT != "" && !rut.Validate(client.RUT) {
		return ErrClientRUT
	}
	if taxRate < 0 || taxRate > 100 {
		return ErrTaxRate
	}
	return nil
}

// NormalizeClient trims the client block and formats its RUT when valid.
func NormalizeClient(c entity.Client) entity.Client {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if formatted, err := rut.Format(c.RUT); err == nil {
		c.RUT = formatted
	}
	return c
}

// NewNumber returns a short document number such as COT-1A2B3C4D.
func NewNumber(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(id[:8]))
}
