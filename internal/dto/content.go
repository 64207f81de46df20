package dto

import (
	contentsvc "github.com/Additional-Code/funerarias/internal/service/content"
)

// ObituaryForm is the multipart obituary form; the photo travels as a file
// part.
type ObituaryForm struct {
	FullName      string `form:"full_name"`
	BirthDate     string `form:"birth_date"`
	DeathDate     string `form:"death_date"`
	Biography     string `form:"biography"`
	CeremonyPlace string `form:"ceremony_place"`
	CeremonyAt    string `form:"ceremony_at"`
	Commune       string `form:"commune"`
	Published     bool   `form:"published"`
}

// ToInput converts the form fields.
func (f ObituaryForm) ToInput() (contentsvc.ObituaryInput, error) {
	in := contentsvc.ObituaryInput{
		FullName:      f.FullName,
		Biography:     f.Biography,
		CeremonyPlace: f.CeremonyPlace,
		Commune:       f.Commune,
		Published:     f.Published,
	}
	var err error
	if in.BirthDate, err = ParseDate("birth_date", f.BirthDate); err != nil {
		return in, err
	}
	if in.DeathDate, err = ParseDate("death_date", f.DeathDate); err != nil {
		return in, err
	}
	if in.CeremonyAt, err = ParseDate("ceremony_at", f.CeremonyAt); err != nil {
		return in, err
	}
	return in, nil
}

// PostForm is the multipart blog post form.
type PostForm struct {
	Slug      string   `form:"slug"`
	Title     string   `form:"title"`
	Excerpt   string   `form:"excerpt"`
	Body      string   `form:"body"`
	Author    string   `form:"author"`
	Tags      []string `form:"tags"`
	Published bool     `form:"published"`
}

// ToInput converts the form fields.
func (f PostForm) ToInput() contentsvc.PostInput {
	return contentsvc.PostInput{
		Slug:      f.Slug,
		Title:     f.Title,
		Excerpt:   f.Excerpt,
		Body:      f.Body,
		Author:    f.Author,
		Tags:      splitList(f.Tags),
		Published: f.Published,
	}
}

// PlanRequest creates or replaces a subscription plan.
type PlanRequest struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	Features     []string `json:"features"`
	MaxProducts  int      `json:"max_products"`
	Highlighted  bool     `json:"highlighted"`
	Active       *bool    `json:"active"`
}

// ToInput converts the payload. Plans are active unless stated.
func (r PlanRequest) ToInput() contentsvc.PlanInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return contentsvc.PlanInput{
		Code:         r.Code,
		Name:         r.Name,
		PriceMonthly: r.PriceMonthly,
		Features:     r.Features,
		MaxProducts:  r.MaxProducts,
		Highlighted:  r.Highlighted,
		Active:       active,
	}
}

// SubscribeRequest picks a plan for the provider.
type SubscribeRequest struct {
	PlanID int64 `json:"plan_id"`
}
