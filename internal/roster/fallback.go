package roster

import (
	"fmt"

	"fundwatch/internal/domain"
)

var bundled = []domain.Politician{
	{ID: "S4VT00033", Name: "Bernie Sanders", CandidateID: "S4VT00033", Party: domain.PartyIndependent, State: "VT", Office: domain.OfficeSenator},
	{ID: "S2TX00312", Name: "Ted Cruz", CandidateID: "S2TX00312", Party: domain.PartyRepublican, State: "TX", Office: domain.OfficeSenator},
	{ID: "S2MA00170", Name: "Elizabeth Warren", CandidateID: "S2MA00170", Party: domain.PartyDemocrat, State: "MA", Office: domain.OfficeSenator},
	{ID: "S2KY00012", Name: "Mitch McConnell", CandidateID: "S2KY00012", Party: domain.PartyRepublican, State: "KY", Office: domain.OfficeSenator},
	{ID: "H8NY15148", Name: "Alexandria Ocasio-Cortez", CandidateID: "H8NY15148", Party: domain.PartyDemocrat, State: "NY", Office: domain.OfficeRepresentative, District: "14"},
}

// FallbackRoster is the small bundled roster served when the directory is
// unavailable. Its ids match the bundled example donor data.
func FallbackRoster() []domain.Politician {
	out := clonePoliticians(bundled)
	for i := range out {
		out[i].IsIncumbent = true
		out[i].IsCandidate = true
		out[i].ProfileURL = fmt.Sprintf(profileURLPattern, out[i].CandidateID)
	}
	return out
}
