package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Office is the chamber a politician serves in or runs for.
type Office string

const (
	OfficeSenator        Office = "Senator"
	OfficeRepresentative Office = "Representative"
)

// Offices lists the chambers covered by the roster, in display order.
var Offices = []Office{OfficeSenator, OfficeRepresentative}

// FECCode returns the single-letter office code used by the disclosure API.
func (o Office) FECCode() string {
	switch o {
	case OfficeSenator:
		return "S"
	case OfficeRepresentative:
		return "H"
	default:
		return ""
	}
}

// ParseOffice accepts the display name or the FEC code, case-insensitively.
func ParseOffice(s string) (Office, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "senator", "senate", "s":
		return OfficeSenator, nil
	case "representative", "house", "h":
		return OfficeRepresentative, nil
	}
	return "", fmt.Errorf("%w: unknown office %q", ErrInvalidInput, s)
}

// Party is the readable party label shown to users.
type Party string

const (
	PartyDemocrat    Party = "Democrat"
	PartyRepublican  Party = "Republican"
	PartyIndependent Party = "Independent"
	PartyLibertarian Party = "Libertarian"
	PartyGreen       Party = "Green"
	PartyOther       Party = "Other"
)

var fecParties = map[string]Party{
	"DEM": PartyDemocrat,
	"REP": PartyRepublican,
	"IND": PartyIndependent,
	"LIB": PartyLibertarian,
	"GRE": PartyGreen,
}

// PartyFromFEC maps FEC party codes. Unknown codes are passed through as-is.
func PartyFromFEC(code string) Party {
	code = strings.TrimSpace(code)
	if p, ok := fecParties[strings.ToUpper(code)]; ok {
		return p
	}
	if code == "" {
		return PartyOther
	}
	return Party(code)
}

// Politician is a roster entry as served to the politician picker.
type Politician struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CandidateID string `json:"cid"`
	Party       Party  `json:"party"`
	State       string `json:"state"`
	Office      Office `json:"position"`
	District    string `json:"district,omitempty"`
	IsIncumbent bool   `json:"isIncumbent"`
	IsCandidate bool   `json:"isCandidate"`
	ProfileURL  string `json:"profileUrl"`
}

var candidateIDPattern = regexp.MustCompile(`^[HSP][A-Z0-9]+$`)

// ValidateCandidateID normalizes an identifier to upper case and checks it
// against the canonical disclosure-API format.
func ValidateCandidateID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	if !candidateIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: malformed candidate id %q", ErrInvalidInput, raw)
	}
	return id, nil
}
