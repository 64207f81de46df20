package dto

import (
	"github.com/Additional-Code/funerarias/internal/entity"
	crmsvc "github.com/Additional-Code/funerarias/internal/service/crm"
)

// LeadRequest is the public contact form.
type LeadRequest struct {
	ProviderID int64  `json:"provider_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	RUT        string `json:"rut"`
	Commune    string `json:"commune"`
	Message    string `json:"message"`
	Source     string `json:"source"`
}

// ToInput converts the payload.
func (r LeadRequest) ToInput() crmsvc.LeadInput {
	return crmsvc.LeadInput{
		ProviderID: r.ProviderID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		RUT:        r.RUT,
		Commune:    r.Commune,
		Message:    r.Message,
		Source:     r.Source,
	}
}

// EmployeeRequest creates or replaces an employee.
type EmployeeRequest struct {
	Name   string `json:"name"`
	RUT    string `json:"rut"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

// ToInput converts the payload. Employees are active unless stated.
func (r EmployeeRequest) ToInput() crmsvc.EmployeeInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return crmsvc.EmployeeInput{
		Name:   r.Name,
		RUT:    r.RUT,
		Email:  r.Email,
		Phone:  r.Phone,
		Role:   r.Role,
		Active: active,
	}
}

// CaseRequest creates or replaces a funeral case.
type CaseRequest struct {
	DeceasedName string `json:"deceased_name"`
	DeceasedRUT  string `json:"deceased_rut"`
	Client       Client `json:"client"`
	Status       string `json:"status"`
	ServiceDate  string `json:"service_date"`
	QuoteID      int64  `json:"quote_id"`
	OrderID      int64  `json:"order_id"`
	AssigneeID   int64  `json:"assignee_id"`
	Notes        string `json:"notes"`
}

// ToInput converts the payload.
func (r CaseRequest) ToInput() (crmsvc.CaseInput, error) {
	date, err := ParseDate("service_date", r.ServiceDate)
	if err != nil {
		return crmsvc.CaseInput{}, err
	}
	return crmsvc.CaseInput{
		DeceasedName: r.DeceasedName,
		DeceasedRUT:  r.DeceasedRUT,
		Client:       r.Client.ToEntity(),
		Status:       entity.CaseStatus(r.Status),
		ServiceDate:  date,
		QuoteID:      r.QuoteID,
		OrderID:      r.OrderID,
		AssigneeID:   r.AssigneeID,
		Notes:        r.Notes,
	}, nil
}
