package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"fundwatch/internal/domain"
	"fundwatch/internal/infra"
	"fundwatch/internal/providers/fec"
)

const (
	defaultPageSize = 100
	maxPages        = 20
	refreshKey      = "roster"

	defaultRefreshTimeout = 2 * time.Minute
)

// Directory is the candidate directory the roster is paged from.
type Directory interface {
	HasCredentials() bool
	Candidates(ctx context.Context, q fec.CandidatesQuery) (*fec.CandidatesPage, error)
}

// Options configures the roster service.
type Options struct {
	Directory Directory
	Store     Store
	Logger    *infra.Logger
	// Fallback is infra.FallbackMock (serve the bundled roster) or
	// infra.FallbackStrict (surface the error).
	Fallback string
	PageSize int
	MaxPages int
	// RefreshTimeout bounds one directory refresh. The refresh is detached
	// from the request that triggered it.
	RefreshTimeout time.Duration
	Now            func() time.Time
}

// Filter narrows a listing. A zero Office means both chambers.
type Filter struct {
	Office            domain.Office
	IncludeCandidates bool
}

// Stats summarizes a listing.
type Stats struct {
	Total                int            `json:"total"`
	Senators             int            `json:"senators"`
	Representatives      int            `json:"representatives"`
	SenatorCountsByState map[string]int `json:"senatorCountsByState"`
}

// Listing is the result of List.
type Listing struct {
	Politicians []domain.Politician `json:"politicians"`
	Stats       Stats               `json:"stats"`
	IsMockData  bool                `json:"isMockData"`
}

// Service serves the roster from its store and refreshes it from the
// directory on a miss. Concurrent misses share one refresh.
type Service struct {
	directory Directory
	store     Store
	logger    *infra.Logger
	fallback  string
	pageSize  int
	maxPages  int
	timeout   time.Duration
	now       func() time.Time
	group     singleflight.Group
}

func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryStore(24 * time.Hour)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	pages := opts.MaxPages
	if pages <= 0 || pages > maxPages {
		pages = maxPages
	}
	fallback := opts.Fallback
	if fallback != infra.FallbackStrict {
		fallback = infra.FallbackMock
	}
	timeout := opts.RefreshTimeout
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		directory: opts.Directory,
		store:     store,
		logger:    logger,
		fallback:  fallback,
		pageSize:  pageSize,
		maxPages:  pages,
		timeout:   timeout,
		now:       now,
	}
}

// ElectionYear is the directory year queried: the current year when even,
// otherwise the one before.
func ElectionYear(t time.Time) int {
	year := t.Year()
	if year%2 != 0 {
		year--
	}
	return year
}

// List returns the roster narrowed by f.
func (s *Service) List(ctx context.Context, f Filter) (*Listing, error) {
	all, mock, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	view := Select(all, f)
	return &Listing{Politicians: view, Stats: ComputeStats(view), IsMockData: mock}, nil
}

// Find looks a politician up by candidate id in the full roster.
func (s *Service) Find(ctx context.Context, candidateID string) (*domain.Politician, bool, error) {
	id, err := domain.ValidateCandidateID(candidateID)
	if err != nil {
		return nil, false, err
	}
	all, mock, err := s.roster(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range all {
		if all[i].CandidateID == id {
			p := all[i]
			return &p, mock, nil
		}
	}
	return nil, mock, fmt.Errorf("%w: politician %s", domain.ErrNotFound, id)
}

func (s *Service) roster(ctx context.Context) ([]domain.Politician, bool, error) {
	now := s.now()
	cached, ok, err := s.store.Get(ctx, now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("roster: cache read failed")
	} else if ok {
		return cached, false, nil
	}

	if s.directory == nil || !s.directory.HasCredentials() {
		return s.fallbackRoster(fmt.Errorf("roster: %w", fec.ErrMissingAPIKey))
	}

	// A caller that goes away stops waiting but does not cut the refresh
	// short; the next caller joins it or finds the stored result.
	ch := s.group.DoChan(refreshKey, func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.refresh(refreshCtx, now)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return s.fallbackRoster(res.Err)
		}
		if res.Shared {
			s.logger.Debug().Msg("roster: joined in-flight refresh")
		}
		return clonePoliticians(res.Val.([]domain.Politician)), false, nil
	}
}

func (s *Service) fallbackRoster(cause error) ([]domain.Politician, bool, error) {
	if s.fallback == infra.FallbackStrict {
		return nil, false, cause
	}
	s.logger.Warn().Err(cause).Msg("roster: serving bundled roster")
	return FallbackRoster(), true, nil
}

// refresh pages both chambers and stores the combined roster. It fails when
// nothing at all could be fetched or when ctx ended mid-refresh; a roster cut
// short by a timeout is never stored.
func (s *Service) refresh(ctx context.Context, now time.Time) ([]domain.Politician, error) {
	year := ElectionYear(now)
	var (
		combined []domain.Politician
		errs     []error
	)
	for _, office := range domain.Offices {
		found, err := s.fetchOffice(ctx, office, year)
		if err != nil {
			errs = append(errs, err)
		}
		unique := Dedup(found)
		s.logger.Info().
			Str("office", string(office)).
			Int("election_year", year).
			Int("fetched", len(found)).
			Int("unique", len(unique)).
			Msg("roster: office fetched")
		combined = append(combined, unique...)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("roster: refresh abandoned after %d records: %w", len(combined), err)
	}
	if len(combined) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := s.store.Set(ctx, combined, now); err != nil {
		s.logger.Warn().Err(err).Msg("roster: cache write failed")
	}
	return combined, nil
}

// fetchOffice pages through one chamber. Records gathered before a failing
// page are returned along with the error.
func (s *Service) fetchOffice(ctx context.Context, office domain.Office, year int) ([]domain.Politician, error) {
	var out []domain.Politician
	for page := 1; page <= s.maxPages; page++ {
		resp, err := s.directory.Candidates(ctx, fec.CandidatesQuery{
			ElectionYear:    year,
			Office:          office.FECCode(),
			CandidateStatus: "C",
			Page:            page,
			PerPage:         s.pageSize,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("office", string(office)).Int("page", page).Int("kept", len(out)).Msg("roster: page fetch failed")
			return out, err
		}
		for _, c := range resp.Results {
			p, err := Transform(c, office)
			if err != nil {
				s.logger.Warn().Err(err).Str("name", c.Name).Msg("roster: dropping record")
				continue
			}
			out = append(out, p)
		}
		if resp.Pagination.Pages <= page {
			return out, nil
		}
		if page == s.maxPages {
			s.logger.Warn().Str("office", string(office)).Int("pages", resp.Pagination.Pages).Msg("roster: page limit reached")
		}
	}
	return out, nil
}
