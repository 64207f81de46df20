package dto

import (
	"encoding/json"
	"strings"

	"github.com/Additional-Code/funerarias/internal/entity"
	providersvc "github.com/Additional-Code/funerarias/internal/service/provider"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

// ProviderForm is the multipart registration and profile form. Coverage is
// a JSON array of {"commune","region"} objects.
type ProviderForm struct {
	Name        string   `form:"name"`
	LegalName   string   `form:"legal_name"`
	RUT         string   `form:"rut"`
	Email       string   `form:"email"`
	Phone       string   `form:"phone"`
	Website     string   `form:"website"`
	Address     string   `form:"address"`
	Region      string   `form:"region"`
	Commune     string   `form:"commune"`
	Description string   `form:"description"`
	Categories  []string `form:"categories"`
	PriceFrom   float64  `form:"price_from"`
	Coverage    string   `form:"coverage"`
}

// Details converts the form fields.
func (f ProviderForm) Details() providersvc.Details {
	return providersvc.Details{
		Name:        f.Name,
		LegalName:   f.LegalName,
		RUT:         f.RUT,
		Email:       f.Email,
		Phone:       f.Phone,
		Website:     f.Website,
		Address:     f.Address,
		Region:      f.Region,
		Commune:     f.Commune,
		Description: f.Description,
		Categories:  splitList(f.Categories),
		PriceFrom:   f.PriceFrom,
	}
}

// CoverageEntries decodes the coverage field.
func (f ProviderForm) CoverageEntries() ([]entity.ProviderCommune, error) {
	if strings.TrimSpace(f.Coverage) == "" {
		return nil, nil
	}
	var entries []CoverageEntry
	if err := json.Unmarshal([]byte(f.Coverage), &entries); err != nil {
		return nil, errorbank.BadRequest("invalid coverage", errorbank.WithCause(err))
	}
	return CoverageRequest{Communes: entries}.ToEntities(), nil
}

// CoverageEntry is one served commune.
type CoverageEntry struct {
	Commune string `json:"commune"`
	Region  string `json:"region"`
}

// CoverageRequest replaces a provider's served communes.
type CoverageRequest struct {
	Communes []CoverageEntry `json:"communes"`
}

// ToEntities converts the payload.
func (r CoverageRequest) ToEntities() []entity.ProviderCommune {
	out := make([]entity.ProviderCommune, 0, len(r.Communes))
	for _, c := range r.Communes {
		out = append(out, entity.ProviderCommune{Commune: c.Commune, Region: c.Region})
	}
	return out
}

// VerifyRequest toggles the verified badge.
type VerifyRequest struct {
	Verified bool `json:"verified"`
}

// splitList accepts both repeated fields and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
