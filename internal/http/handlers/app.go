package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fundwatch/internal/domain"
	"fundwatch/internal/donors"
	"fundwatch/internal/infra"
	"fundwatch/internal/roster"
)

// DonorLookup runs the donor pipeline for one candidate.
type DonorLookup interface {
	Lookup(ctx context.Context, req donors.Request) (*donors.Result, error)
	Classifier() *donors.Classifier
}

// RosterReader serves the politician directory.
type RosterReader interface {
	List(ctx context.Context, f roster.Filter) (*roster.Listing, error)
	Find(ctx context.Context, candidateID string) (*domain.Politician, bool, error)
}

type App struct {
	DonorSvc       DonorLookup
	RosterSvc      RosterReader
	Logger         *infra.Logger
	HasCredentials bool
}

func NewApp(donorSvc DonorLookup, rosterSvc RosterReader, logger *infra.Logger, hasCredentials bool) *App {
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	return &App{DonorSvc: donorSvc, RosterSvc: rosterSvc, Logger: logger, HasCredentials: hasCredentials}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps internal wrapping prefixes out of responses.
func publicMessage(err error) string {
	var ue *domain.UpstreamError
	switch {
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, domain.ErrMissingCredential):
		return "disclosure API key is not configured"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		return err.Error()
	default:
		return "internal error"
	}
}

func (a *App) logFailure(r *http.Request, err error, status int) {
	event := a.Logger.Warn()
	if status >= 500 {
		event = a.Logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
}
