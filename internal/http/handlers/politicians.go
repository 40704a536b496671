package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fundwatch/internal/domain"
	"fundwatch/internal/roster"
)

type politiciansResponse struct {
	Politicians []domain.Politician `json:"politicians"`
	Stats       *roster.Stats       `json:"stats,omitempty"`
	IsMockData  bool                `json:"isMockData"`
	Error       string              `json:"error,omitempty"`
}

// Politicians serves GET /politicians?candidates=&office=.
func (a *App) Politicians(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f roster.Filter
	if raw := strings.TrimSpace(q.Get("office")); raw != "" {
		office, err := domain.ParseOffice(raw)
		if err != nil {
			a.politiciansError(w, r, err)
			return
		}
		f.Office = office
	}
	// Anything other than a parseable true keeps the seat view.
	f.IncludeCandidates, _ = strconv.ParseBool(q.Get("candidates"))

	listing, err := a.RosterSvc.List(r.Context(), f)
	if err != nil {
		a.politiciansError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, politiciansResponse{
		Politicians: listing.Politicians,
		Stats:       &listing.Stats,
		IsMockData:  listing.IsMockData,
	})
}

// PoliticianByID serves GET /politicians/{cid}.
func (a *App) PoliticianByID(w http.ResponseWriter, r *http.Request) {
	p, mock, err := a.RosterSvc.Find(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		status := statusFor(err)
		a.logFailure(r, err, status)
		a.json(w, status, map[string]any{"error": publicMessage(err)})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"politician": p, "isMockData": mock})
}

func (a *App) politiciansError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	a.logFailure(r, err, status)
	a.json(w, status, politiciansResponse{Politicians: []domain.Politician{}, Error: publicMessage(err)})
}
