package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fundwatch/internal/domain"
	"fundwatch/internal/donors"
)

const maxTopN = 100

type donorDTO struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Industry string  `json:"industry,omitempty"`
	Type     string  `json:"type,omitempty"`
}

type shareDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type summaryDTO struct {
	Total             float64    `json:"total"`
	IndustryBreakdown []shareDTO `json:"industryBreakdown"`
	DonorTypes        []shareDTO `json:"donorTypes"`
	DominantIndustry  *shareDTO  `json:"dominantIndustry,omitempty"`
	TopDonors         []donorDTO `json:"topDonors"`
	Impact            string     `json:"impact"`
}

type donorsResponse struct {
	CandidateID         string      `json:"cid,omitempty"`
	Cycle               int         `json:"cycle,omitempty"`
	Source              string      `json:"source,omitempty"`
	Committees          []string    `json:"committees,omitempty"`
	Donors              []donorDTO  `json:"donors"`
	SmallDonationsTotal float64     `json:"smallDonationsTotal"`
	Summary             *summaryDTO `json:"summary,omitempty"`
	IsMockData          bool        `json:"isMockData"`
	Partial             bool        `json:"partial,omitempty"`
	Message             string      `json:"message,omitempty"`
	Error               string      `json:"error,omitempty"`
}

// Donors serves GET /donors?cid=&cycle=&top=.
func (a *App) Donors(w http.ResponseWriter, r *http.Request) {
	req, err := parseDonorsRequest(r)
	if err != nil {
		a.donorsError(w, r, err)
		return
	}
	res, err := a.DonorSvc.Lookup(r.Context(), req)
	if err != nil {
		a.donorsError(w, r, err)
		return
	}

	classifier := a.DonorSvc.Classifier()
	a.json(w, http.StatusOK, donorsResponse{
		CandidateID:         res.CandidateID,
		Cycle:               res.Cycle,
		Source:              res.Source,
		Committees:          res.Committees,
		Donors:              donorDTOs(res.Donors, classifier),
		SmallDonationsTotal: amount(res.SmallDonationsTotal),
		Summary:             summaryToDTO(res.Summary, classifier),
		IsMockData:          res.IsMockData,
		Partial:             res.Partial,
		Message:             res.Message,
	})
}

func (a *App) donorsError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	a.logFailure(r, err, status)
	a.json(w, status, donorsResponse{Donors: []donorDTO{}, Error: publicMessage(err)})
}

func parseDonorsRequest(r *http.Request) (donors.Request, error) {
	q := r.URL.Query()
	req := donors.Request{CandidateID: strings.TrimSpace(q.Get("cid"))}
	if req.CandidateID == "" {
		return req, fmt.Errorf("%w: cid is required", domain.ErrInvalidInput)
	}
	if raw := strings.TrimSpace(q.Get("cycle")); raw != "" {
		cycle, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: cycle must be a year", domain.ErrInvalidInput)
		}
		req.Cycle = cycle
	}
	if raw := strings.TrimSpace(q.Get("top")); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 || top > maxTopN {
			return req, fmt.Errorf("%w: top must be between 1 and %d", domain.ErrInvalidInput, maxTopN)
		}
		req.TopN = top
	}
	return req, nil
}

func donorDTOs(list []domain.AggregatedDonor, classifier *donors.Classifier) []donorDTO {
	out := make([]donorDTO, 0, len(list))
	for _, d := range list {
		dto := donorDTO{Name: d.Name, Amount: amount(d.Amount), Industry: d.Industry}
		if classifier != nil {
			dto.Type = classifier.Classify(d.Name)
		}
		out = append(out, dto)
	}
	return out
}

func shareDTOs(shares []donors.Share) []shareDTO {
	out := make([]shareDTO, 0, len(shares))
	for _, s := range shares {
		out = append(out, shareDTO{Name: s.Name, Amount: amount(s.Amount)})
	}
	return out
}

func summaryToDTO(s donors.Summary, classifier *donors.Classifier) *summaryDTO {
	dto := &summaryDTO{
		Total:             amount(s.Total),
		IndustryBreakdown: shareDTOs(s.IndustryBreakdown),
		DonorTypes:        shareDTOs(s.DonorTypes),
		TopDonors:         donorDTOs(s.TopDonors, classifier),
		Impact:            s.Impact,
	}
	if s.DominantIndustry != nil {
		dto.DominantIndustry = &shareDTO{Name: s.DominantIndustry.Name, Amount: amount(s.DominantIndustry.Amount)}
	}
	return dto
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
