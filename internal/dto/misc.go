package dto

// CampaignRequest asks for a marketing email blast.
type CampaignRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// RUTRequest asks for a RUT check.
type RUTRequest struct {
	RUT string `json:"rut"`
}

// RUTResponse reports the outcome of a RUT check.
type RUTResponse struct {
	Input      string `json:"input"`
	Valid      bool   `json:"valid"`
	Formatted  string `json:"formatted,omitempty"`
	CheckDigit string `json:"check_digit,omitempty"`
}
