package roster

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fundwatch/internal/domain"
	"fundwatch/internal/providers/fec"
)

const profileURLPattern = "https://www.fec.gov/data/candidate/%s/"

// Transform turns one directory record into a roster entry. Records whose id
// fails validation are rejected so they never reach a donor lookup.
func Transform(c fec.Candidate, office domain.Office) (domain.Politician, error) {
	id, err := domain.ValidateCandidateID(c.CandidateID)
	if err != nil {
		return domain.Politician{}, err
	}
	state := strings.ToUpper(strings.TrimSpace(c.State))
	if state == "" {
		state = "Unknown"
	}
	p := domain.Politician{
		ID:          id,
		Name:        DisplayName(c.Name),
		CandidateID: id,
		Party:       domain.PartyFromFEC(c.Party),
		State:       state,
		Office:      office,
		IsIncumbent: strings.EqualFold(strings.TrimSpace(c.IncumbentChallenge), "I"),
		IsCandidate: true,
		ProfileURL:  fmt.Sprintf(profileURLPattern, id),
	}
	if office == domain.OfficeRepresentative {
		if n, err := strconv.Atoi(strings.TrimSpace(c.District)); err == nil {
			p.District = strconv.Itoa(n)
		}
	}
	return p, nil
}

// DisplayName converts the directory's "LAST, FIRST MIDDLE" upper-case form
// into "First Middle Last".
func DisplayName(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return "Unknown Candidate"
	}
	if last, first, ok := strings.Cut(raw, ","); ok {
		first, last = strings.TrimSpace(first), strings.TrimSpace(last)
		if first != "" {
			raw = first + " " + last
		} else {
			raw = last
		}
	}
	// Casers carry state and are not safe to share between goroutines.
	return cases.Title(language.English).String(raw)
}
