package roster

import "fundwatch/internal/domain"

// Dedup keeps one record per candidate id in first-seen order. A later record
// replaces an earlier one unless that would swap an incumbent for a
// non-incumbent.
func Dedup(in []domain.Politician) []domain.Politician {
	index := make(map[string]int, len(in))
	out := make([]domain.Politician, 0, len(in))
	for _, p := range in {
		i, seen := index[p.CandidateID]
		if !seen {
			index[p.CandidateID] = len(out)
			out = append(out, p)
			continue
		}
		if out[i].IsIncumbent && !p.IsIncumbent {
			continue
		}
		out[i] = p
	}
	return out
}

type seat struct {
	state    string
	district string
}

// Select narrows the roster by office and, unless candidates are requested,
// reduces it to sitting members: the incumbent for each House seat (or the
// first candidate when the seat has none) and the incumbents for each state's
// Senate delegation (or every candidate when the state has none).
//
// Directory records carry no Senate class, so a state's two seats cannot be
// told apart. When a state has one incumbent and one open seat, the open
// seat's candidates are left out of this view; IncludeCandidates shows them.
func Select(all []domain.Politician, f Filter) []domain.Politician {
	filtered := make([]domain.Politician, 0, len(all))
	for _, p := range all {
		if f.Office == "" || p.Office == f.Office {
			filtered = append(filtered, p)
		}
	}
	if f.IncludeCandidates {
		return filtered
	}

	senateIncumbent := make(map[string]bool)
	houseChoice := make(map[seat]int)
	for i, p := range filtered {
		switch p.Office {
		case domain.OfficeSenator:
			if p.IsIncumbent {
				senateIncumbent[p.State] = true
			}
		case domain.OfficeRepresentative:
			key := seat{state: p.State, district: p.District}
			j, ok := houseChoice[key]
			if !ok || (p.IsIncumbent && !filtered[j].IsIncumbent) {
				houseChoice[key] = i
			}
		}
	}

	out := make([]domain.Politician, 0, len(filtered))
	for i, p := range filtered {
		switch p.Office {
		case domain.OfficeSenator:
			if p.IsIncumbent || !senateIncumbent[p.State] {
				out = append(out, p)
			}
		case domain.OfficeRepresentative:
			if houseChoice[seat{state: p.State, district: p.District}] == i {
				out = append(out, p)
			}
		default:
			out = append(out, p)
		}
	}
	return out
}

// ComputeStats counts a listing by chamber and Senate seats by state.
func ComputeStats(list []domain.Politician) Stats {
	stats := Stats{Total: len(list), SenatorCountsByState: make(map[string]int)}
	for _, p := range list {
		switch p.Office {
		case domain.OfficeSenator:
			stats.Senators++
			stats.SenatorCountsByState[p.State]++
		case domain.OfficeRepresentative:
			stats.Representatives++
		}
	}
	return stats
}
