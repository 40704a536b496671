package fec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fundwatch/internal/domain"
	"fundwatch/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = fmt.Errorf("fec: api key is required: %w", domain.ErrMissingCredential)

const maxErrorBody = 512

// Options configures the OpenFEC client.
type Options struct {
	APIKey            string
	BaseURL           string
	HTTPClient        *http.Client
	Logger            *infra.Logger
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client performs HTTP calls against the OpenFEC REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.open.fec.gov/v1"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("fec: invalid base url: %w", err)
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// CandidateCommittees lists the committees authorized by a candidate for a cycle.
func (c *Client) CandidateCommittees(ctx context.Context, candidateID string, cycle int) ([]Committee, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	if cycle > 0 {
		params.Set("cycle", strconv.Itoa(cycle))
	}
	var committees []Committee
	path := "/candidate/" + url.PathEscape(candidateID) + "/committees/"
	if _, err := c.list(ctx, path, params, &committees); err != nil {
		return nil, err
	}
	return committees, nil
}

// ScheduleA returns one page of itemized receipts, largest first unless a sort is given.
func (c *Client) ScheduleA(ctx context.Context, q ScheduleAQuery) (*ScheduleAPage, error) {
	if q.CandidateID == "" && q.CommitteeID == "" {
		return nil, fmt.Errorf("fec: schedule_a needs a candidate or committee id: %w", domain.ErrInvalidInput)
	}
	params := url.Values{}
	if q.CommitteeID != "" {
		params.Set("committee_id", q.CommitteeID)
	} else {
		params.Set("candidate_id", q.CandidateID)
	}
	if q.Cycle > 0 {
		params.Set("two_year_transaction_period", strconv.Itoa(q.Cycle))
	}
	sort := q.Sort
	if sort == "" {
		sort = "-contribution_receipt_amount"
	}
	params.Set("sort", sort)
	setPaging(params, q.Page, q.PerPage)

	page := &ScheduleAPage{}
	pagination, err := c.list(ctx, "/schedules/schedule_a/", params, &page.Results)
	if err != nil {
		return nil, err
	}
	page.Pagination = pagination
	return page, nil
}

// Candidates returns one page of the candidate directory.
func (c *Client) Candidates(ctx context.Context, q CandidatesQuery) (*CandidatesPage, error) {
	params := url.Values{}
	if q.ElectionYear > 0 {
		params.Set("election_year", strconv.Itoa(q.ElectionYear))
	}
	if q.Office != "" {
		params.Set("office", q.Office)
	}
	if q.CandidateStatus != "" {
		params.Set("candidate_status", q.CandidateStatus)
	}
	setPaging(params, q.Page, q.PerPage)

	page := &CandidatesPage{}
	pagination, err := c.list(ctx, "/candidates/", params, &page.Results)
	if err != nil {
		return nil, err
	}
	page.Pagination = pagination
	return page, nil
}

func setPaging(params url.Values, page, perPage int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 100
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
}

// list performs a GET against a list endpoint and decodes its results array
// into dst. A body without a results array is an upstream failure.
func (c *Client) list(ctx context.Context, path string, params url.Values, dst any) (Pagination, error) {
	if !c.HasCredentials() {
		return Pagination{}, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(0, err.Error()))
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Pagination{}, fmt.Errorf("fec: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(0, scrubKey(err.Error(), c.apiKey)))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(resp.StatusCode, "read response: "+err.Error()))
	}

	c.logger.Debug().
		Str("path", path).
		Str("page", params.Get("page")).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("fec: request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(resp.StatusCode, errorMessage(raw)))
	}

	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(resp.StatusCode, "decode response: "+err.Error()))
	}
	results := bytes.TrimSpace(env.Results)
	if len(results) == 0 || bytes.Equal(results, []byte("null")) {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(resp.StatusCode, "response has no results"))
	}
	if err := json.Unmarshal(results, dst); err != nil {
		return Pagination{}, fmt.Errorf("fec: %s: %w", path, domain.NewUpstreamError(resp.StatusCode, "decode results: "+err.Error()))
	}
	return env.Pagination, nil
}

// errorMessage extracts a human readable message from an error body. The API
// gateway nests it under "error", the FEC application puts it at the top.
func errorMessage(raw []byte) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Message != "" {
			return detail.Message
		}
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if len(detail.Error) > 0 {
			if err := json.Unmarshal(detail.Error, &nested); err == nil && nested.Message != "" {
				if nested.Code != "" {
					return fmt.Sprintf("%s (%s)", nested.Message, nested.Code)
				}
				return nested.Message
			}
			var plain string
			if err := json.Unmarshal(detail.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		return "empty response body"
	}
	return msg
}

// scrubKey keeps the API key out of error strings that embed the request URL.
func scrubKey(msg, key string) string {
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *domain.UpstreamError
	return errors.As(err, &ue) && ue.Status == http.StatusNotFound
}
