package donors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fundwatch/internal/domain"
	"fundwatch/internal/infra"
	"fundwatch/internal/providers/fec"
)

// Source is the subset of the disclosure API the pipeline needs.
type Source interface {
	HasCredentials() bool
	CandidateCommittees(ctx context.Context, candidateID string, cycle int) ([]fec.Committee, error)
	ScheduleA(ctx context.Context, q fec.ScheduleAQuery) (*fec.ScheduleAPage, error)
}

// Stage is a step of a pipeline run.
type Stage string

const (
	StageIdle                  Stage = "idle"
	StageResolvingCommittees   Stage = "resolving_committees"
	StageFetchingContributions Stage = "fetching_contributions"
	StageAggregating           Stage = "aggregating"
	StageDone                  Stage = "done"
	StageError                 Stage = "error"
	StageMockFallback          Stage = "mock_fallback"
)

const (
	SourceCommittees = "committees"
	SourceCandidate  = "candidate"
	SourceMock       = "mock"
)

// Options configures the pipeline.
type Options struct {
	Source      Source
	Logger      *infra.Logger
	Classifier  *Classifier
	Matcher     NameMatcher
	Threshold   decimal.Decimal
	TopN        int
	PageSize    int
	MaxPages    int
	Concurrency int
	// Fallback is infra.FallbackStrict (errors surface to the caller) or
	// infra.FallbackMock (bundled data flagged as mock).
	Fallback string
	Now      func() time.Time
}

// Service runs the donor pipeline: resolve committees, fetch contributions,
// normalize, aggregate, rank.
type Service struct {
	source      Source
	logger      *infra.Logger
	classifier  *Classifier
	matcher     NameMatcher
	threshold   decimal.Decimal
	topN        int
	pageSize    int
	maxPages    int
	concurrency int
	fallback    string
	now         func() time.Time
}

// Request asks for the donors of one candidate. Zero Cycle means the current
// two-year period; zero TopN means the service default.
type Request struct {
	CandidateID string
	Cycle       int
	TopN        int
}

// Result is the outcome of a pipeline run.
type Result struct {
	CandidateID         string                   `json:"cid"`
	Cycle               int                      `json:"cycle"`
	Source              string                   `json:"source"`
	Committees          []string                 `json:"committees,omitempty"`
	Donors              []domain.AggregatedDonor `json:"donors"`
	SmallDonationsTotal decimal.Decimal          `json:"smallDonationsTotal"`
	Summary             Summary                  `json:"summary"`
	IsMockData          bool                     `json:"isMockData"`
	Partial             bool                     `json:"partial,omitempty"`
	Message             string                   `json:"message,omitempty"`
	Stage               Stage                    `json:"stage"`
}

// NewService applies defaults to opts.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = ExactMatch
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 || maxPages > infra.MaxDonorPages {
		maxPages = infra.MaxDonorPages
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	fallback := opts.Fallback
	if fallback != infra.FallbackMock {
		fallback = infra.FallbackStrict
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:      opts.Source,
		logger:      logger,
		classifier:  classifier,
		matcher:     matcher,
		threshold:   opts.Threshold,
		topN:        opts.TopN,
		pageSize:    pageSize,
		maxPages:    maxPages,
		concurrency: concurrency,
		fallback:    fallback,
		now:         now,
	}
}

// Classifier exposes the donor-type classifier so callers can label donors
// the same way the summary does.
func (s *Service) Classifier() *Classifier {
	return s.classifier
}

// ContributionCycle returns the two-year period containing t. Periods are
// named after their even end year.
func ContributionCycle(t time.Time) int {
	year := t.Year()
	if year%2 != 0 {
		year++
	}
	return year
}

// NormalizeCycle rounds an odd year up to its period and rejects years the
// disclosure API has no data for.
func NormalizeCycle(cycle int, now time.Time) (int, error) {
	if cycle == 0 {
		return ContributionCycle(now), nil
	}
	if cycle%2 != 0 {
		cycle++
	}
	if cycle < 1980 || cycle > ContributionCycle(now) {
		return 0, fmt.Errorf("%w: cycle %d out of range", domain.ErrInvalidInput, cycle)
	}
	return cycle, nil
}

type contributionSource struct {
	committeeID string
}

type sourceOutcome struct {
	contributions []domain.NormalizedContribution
	pages         int
	err           error
}

// Lookup runs the pipeline for one candidate. Errors wrap domain.ErrInvalidInput,
// domain.ErrMissingCredential or domain.ErrUpstreamFailure.
func (s *Service) Lookup(ctx context.Context, req Request) (*Result, error) {
	run := &pipelineRun{logger: s.logger, cid: req.CandidateID, stage: StageIdle}

	id, err := domain.ValidateCandidateID(req.CandidateID)
	if err != nil {
		return nil, run.fail(err)
	}
	run.cid = id
	cycle, err := NormalizeCycle(req.Cycle, s.now())
	if err != nil {
		return nil, run.fail(err)
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.topN
	}

	if s.source == nil || !s.source.HasCredentials() {
		if s.fallback == infra.FallbackMock {
			return s.mockResult(run, id, cycle, topN, "Disclosure API key is not configured; showing example data."), nil
		}
		return nil, run.fail(fmt.Errorf("donors: %w", fec.ErrMissingAPIKey))
	}

	run.advance(StageResolvingCommittees)
	sources := s.resolveSources(ctx, run, id, cycle)
	result := &Result{CandidateID: id, Cycle: cycle, Source: SourceCandidate}
	for _, src := range sources {
		if src.committeeID != "" {
			result.Source = SourceCommittees
			result.Committees = append(result.Committees, src.committeeID)
		}
	}

	run.advance(StageFetchingContributions)
	outcomes := s.fetchAll(ctx, id, cycle, sources)

	run.advance(StageAggregating)
	agg := NewAggregator(s.threshold, s.matcher)
	var (
		failed   int
		firstErr error
		pages    int
	)
	for _, o := range outcomes {
		pages += o.pages
		agg.AddAll(o.contributions)
		if o.err != nil {
			failed++
			if firstErr == nil {
				firstErr = o.err
			}
		}
	}
	if firstErr != nil {
		if pages == 0 {
			if s.fallback == infra.FallbackMock {
				s.logger.Warn().Err(firstErr).Str("cid", id).Msg("donors: upstream failed, serving example data")
				return s.mockResult(run, id, cycle, topN, "Disclosure API is unavailable; showing example data."), nil
			}
			return nil, run.fail(firstErr)
		}
		s.logger.Warn().Err(firstErr).Str("cid", id).Int("failed_sources", failed).Msg("donors: returning partial results")
		result.Partial = true
		result.Message = fmt.Sprintf("Partial results: %d of %d contribution sources could not be fetched.", failed, len(sources))
	}

	donors, small := agg.Result()
	for i := range donors {
		if donors[i].Industry == "" {
			donors[i].Industry = UnknownIndustry
		}
	}
	result.SmallDonationsTotal = small
	result.Summary = Summarize(donors, s.classifier)
	result.Donors = truncate(donors, topN)
	if len(result.Donors) == 0 && result.Message == "" {
		result.Message = "No itemized contributions were reported for this candidate in the selected cycle."
	}

	run.advance(StageDone)
	result.Stage = run.stage
	return result, nil
}

// resolveSources lists the candidate's committees. Resolution failures and
// empty committee lists degrade to querying the candidate directly.
func (s *Service) resolveSources(ctx context.Context, run *pipelineRun, id string, cycle int) []contributionSource {
	committees, err := s.source.CandidateCommittees(ctx, id, cycle)
	if err != nil {
		event := s.logger.Warn()
		if fec.IsNotFound(err) {
			event = s.logger.Info()
		}
		event.Err(err).Str("cid", id).Msg("donors: committee resolution failed, querying candidate directly")
		return []contributionSource{{}}
	}
	seen := make(map[string]struct{}, len(committees))
	var sources []contributionSource
	for _, c := range committees {
		if c.CommitteeID == "" {
			continue
		}
		if _, dup := seen[c.CommitteeID]; dup {
			continue
		}
		seen[c.CommitteeID] = struct{}{}
		sources = append(sources, contributionSource{committeeID: c.CommitteeID})
	}
	if len(sources) == 0 {
		run.logger.Debug().Str("cid", id).Msg("donors: no committees, querying candidate directly")
		return []contributionSource{{}}
	}
	return sources
}

// fetchAll pages through every source concurrently. Outcomes keep source
// order so aggregation is deterministic.
func (s *Service) fetchAll(ctx context.Context, id string, cycle int, sources []contributionSource) []sourceOutcome {
	outcomes := make([]sourceOutcome, len(sources))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			outcomes[i] = s.fetchSource(ctx, id, cycle, src)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Service) fetchSource(ctx context.Context, id string, cycle int, src contributionSource) sourceOutcome {
	var out sourceOutcome
	for page := 1; page <= s.maxPages; page++ {
		resp, err := s.source.ScheduleA(ctx, fec.ScheduleAQuery{
			CandidateID: id,
			CommitteeID: src.committeeID,
			Cycle:       cycle,
			Page:        page,
			PerPage:     s.pageSize,
		})
		if err != nil {
			if !errors.Is(err, domain.ErrUpstreamFailure) {
				err = fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			}
			out.err = err
			return out
		}
		out.pages++
		out.contributions = append(out.contributions, NormalizeAll(resp.Results)...)
		if resp.Pagination.Pages <= page || len(resp.Results) == 0 {
			break
		}
	}
	return out
}

func (s *Service) mockResult(run *pipelineRun, id string, cycle, topN int, message string) *Result {
	run.advance(StageMockFallback)
	donors := MockDonors(id)
	return &Result{
		CandidateID:         id,
		Cycle:               cycle,
		Source:              SourceMock,
		Donors:              truncate(donors, topN),
		SmallDonationsTotal: decimal.Zero,
		Summary:             Summarize(donors, s.classifier),
		IsMockData:          true,
		Message:             message,
		Stage:               run.stage,
	}
}

func truncate(donors []domain.AggregatedDonor, n int) []domain.AggregatedDonor {
	if n > 0 && len(donors) > n {
		return donors[:n]
	}
	return donors
}

type pipelineRun struct {
	logger *infra.Logger
	cid    string
	stage  Stage
}

func (r *pipelineRun) advance(next Stage) {
	r.logger.Debug().
		Str("cid", r.cid).
		Str("from", string(r.stage)).
		Str("stage", string(next)).
		Msg("donors: stage transition")
	r.stage = next
}

func (r *pipelineRun) fail(err error) error {
	r.advance(StageError)
	r.logger.Warn().Err(err).Str("cid", r.cid).Msg("donors: lookup failed")
	return err
}
