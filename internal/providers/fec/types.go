package fec

import "encoding/json"

// Pagination mirrors the pagination block returned with every list endpoint.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Count   int `json:"count"`
}

// Committee is a committee authorized by a candidate.
type Committee struct {
	CommitteeID string `json:"committee_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
}

// Contribution is a raw Schedule A itemized receipt. Pointer fields may be
// absent or null upstream; the amount is kept undecoded because the API has
// been seen to return it as a number, a string or null.
type Contribution struct {
	ContributorName       *string         `json:"contributor_name"`
	Amount                json.RawMessage `json:"contribution_receipt_amount"`
	ContributorEmployer   *string         `json:"contributor_employer"`
	ContributorOccupation *string         `json:"contributor_occupation"`
	CommitteeID           string          `json:"committee_id,omitempty"`
}

// ScheduleAQuery scopes a contribution listing to a committee or, when no
// committee is given, to the candidate directly.
type ScheduleAQuery struct {
	CandidateID string
	CommitteeID string
	Cycle       int
	Page        int
	PerPage     int
	Sort        string
}

// ScheduleAPage is one page of contributions.
type ScheduleAPage struct {
	Results    []Contribution
	Pagination Pagination
}

// Candidate is a raw directory record from /candidates.
type Candidate struct {
	CandidateID        string `json:"candidate_id"`
	Name               string `json:"name"`
	Party              string `json:"party"`
	State              string `json:"state"`
	District           string `json:"district"`
	Office             string `json:"office"`
	IncumbentChallenge string `json:"incumbent_challenge"`
}

// CandidatesQuery filters the candidate directory.
type CandidatesQuery struct {
	ElectionYear    int
	Office          string
	CandidateStatus string
	Page            int
	PerPage         int
}

// CandidatesPage is one page of directory records.
type CandidatesPage struct {
	Results    []Candidate
	Pagination Pagination
}

type listEnvelope struct {
	Results    json.RawMessage `json:"results"`
	Pagination Pagination      `json:"pagination"`
}

type errorResponse struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}
