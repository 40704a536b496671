package fec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"fundwatch/internal/domain"
)

func TestScheduleAQueryParameters(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSONResponse("/v1/schedules/schedule_a/", http.StatusOK, map[string]any{
		"results": []any{
			map[string]any{
				"contributor_name":            "DOE, JANE",
				"contribution_receipt_amount": 250.5,
				"contributor_employer":        "ACME",
				"contributor_occupation":      "ENGINEER",
			},
			map[string]any{
				"contributor_name":            nil,
				"contribution_receipt_amount": "12.00",
			},
		},
		"pagination": map[string]any{"page": 2, "pages": 7, "per_page": 100, "count": 650},
	})
	client := newTestClient(t, transport)

	page, err := client.ScheduleA(context.Background(), ScheduleAQuery{
		CandidateID: "S4VT00033",
		CommitteeID: "C00411330",
		Cycle:       2024,
		Page:        2,
		PerPage:     100,
	})
	if err != nil {
		t.Fatalf("schedule a: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("results len = %d, want 2", len(page.Results))
	}
	if page.Pagination.Pages != 7 {
		t.Fatalf("pages = %d, want 7", page.Pagination.Pages)
	}
	if got := *page.Results[0].ContributorName; got != "DOE, JANE" {
		t.Fatalf("contributor = %q", got)
	}
	if page.Results[1].ContributorName != nil {
		t.Fatalf("expected null contributor to decode as nil")
	}
	if string(page.Results[1].Amount) != `"12.00"` {
		t.Fatalf("raw amount = %s", page.Results[1].Amount)
	}

	q := transport.lastRequest.URL.Query()
	if q.Get("committee_id") != "C00411330" {
		t.Fatalf("committee_id = %q", q.Get("committee_id"))
	}
	if q.Get("candidate_id") != "" {
		t.Fatalf("candidate_id should be omitted when a committee is given")
	}
	if q.Get("two_year_transaction_period") != "2024" {
		t.Fatalf("two_year_transaction_period = %q", q.Get("two_year_transaction_period"))
	}
	if q.Get("sort") != "-contribution_receipt_amount" {
		t.Fatalf("sort = %q", q.Get("sort"))
	}
	if q.Get("page") != "2" || q.Get("per_page") != "100" {
		t.Fatalf("paging = %q/%q", q.Get("page"), q.Get("per_page"))
	}
	if q.Get("api_key") != "test-key" {
		t.Fatalf("api_key = %q", q.Get("api_key"))
	}
}

func TestScheduleADirectCandidateQuery(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSONResponse("/v1/schedules/schedule_a/", http.StatusOK, map[string]any{
		"results":    []any{},
		"pagination": map[string]any{"pages": 0},
	})
	client := newTestClient(t, transport)

	page, err := client.ScheduleA(context.Background(), ScheduleAQuery{CandidateID: "H8NY15148", Cycle: 2026})
	if err != nil {
		t.Fatalf("schedule a: %v", err)
	}
	if len(page.Results) != 0 {
		t.Fatalf("expected empty results")
	}
	q := transport.lastRequest.URL.Query()
	if q.Get("candidate_id") != "H8NY15148" {
		t.Fatalf("candidate_id = %q", q.Get("candidate_id"))
	}
	if q.Get("page") != "1" {
		t.Fatalf("default page = %q, want 1", q.Get("page"))
	}
}

func TestCandidateCommittees(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSONResponse("/v1/candidate/S4VT00033/committees/", http.StatusOK, map[string]any{
		"results": []any{
			map[string]any{"committee_id": "C00411330", "name": "FRIENDS OF BERNIE SANDERS", "designation": "P"},
			map[string]any{"committee_id": "C00577130", "name": "BERNIE 2016", "designation": "P"},
		},
	})
	client := newTestClient(t, transport)

	committees, err := client.CandidateCommittees(context.Background(), "S4VT00033", 2024)
	if err != nil {
		t.Fatalf("committees: %v", err)
	}
	if len(committees) != 2 || committees[0].CommitteeID != "C00411330" {
		t.Fatalf("unexpected committees: %#v", committees)
	}
	if transport.lastRequest.URL.Query().Get("cycle") != "2024" {
		t.Fatalf("cycle not forwarded")
	}
}

func TestCandidatesQuery(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSONResponse("/v1/candidates/", http.StatusOK, map[string]any{
		"results": []any{
			map[string]any{
				"candidate_id":        "H8NY15148",
				"name":                "OCASIO-CORTEZ, ALEXANDRIA",
				"party":               "DEM",
				"state":               "NY",
				"district":            "14",
				"incumbent_challenge": "I",
			},
		},
		"pagination": map[string]any{"pages": 3},
	})
	client := newTestClient(t, transport)

	page, err := client.Candidates(context.Background(), CandidatesQuery{
		ElectionYear:    2026,
		Office:          "H",
		CandidateStatus: "C",
		Page:            1,
		PerPage:         100,
	})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].District != "14" {
		t.Fatalf("unexpected results: %#v", page.Results)
	}
	q := transport.lastRequest.URL.Query()
	for key, want := range map[string]string{"election_year": "2026", "office": "H", "candidate_status": "C"} {
		if q.Get(key) != want {
			t.Fatalf("%s = %q, want %q", key, q.Get(key), want)
		}
	}
}

func TestListErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "gateway error object",
			status:     http.StatusForbidden,
			body:       `{"error":{"code":"API_KEY_INVALID","message":"An invalid api_key was supplied."}}`,
			wantStatus: http.StatusForbidden,
			wantMsg:    "An invalid api_key was supplied. (API_KEY_INVALID)",
		},
		{
			name:       "application message",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"bad cycle","status":422}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "bad cycle",
		},
		{
			name:       "plain text body",
			status:     http.StatusBadGateway,
			body:       "upstream down",
			wantStatus: http.StatusBadGateway,
			wantMsg:    "upstream down",
		},
		{
			name:       "success without results",
			status:     http.StatusOK,
			body:       `{"pagination":{"pages":1}}`,
			wantStatus: http.StatusOK,
			wantMsg:    "response has no results",
		},
		{
			name:       "results not a list",
			status:     http.StatusOK,
			body:       `{"results":{"candidate_id":"S1"}}`,
			wantStatus: http.StatusOK,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transport := &captureTransport{responses: map[string]responseStub{
				"/v1/candidates/": {status: tc.status, body: []byte(tc.body)},
			}}
			client := newTestClient(t, transport)

			_, err := client.Candidates(context.Background(), CandidatesQuery{Office: "S"})
			if !errors.Is(err, domain.ErrUpstreamFailure) {
				t.Fatalf("error = %v, want upstream failure", err)
			}
			var ue *domain.UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("expected *domain.UpstreamError, got %T", err)
			}
			if ue.Status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", ue.Status, tc.wantStatus)
			}
			if tc.wantMsg != "" && ue.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", ue.Message, tc.wantMsg)
			}
		})
	}
}

func TestMissingAPIKeyMakesNoRequest(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client, err := NewClient(Options{HTTPClient: &http.Client{Transport: transport}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.HasCredentials() {
		t.Fatalf("expected no credentials")
	}
	_, err = client.Candidates(context.Background(), CandidatesQuery{})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("error = %v, want missing credential", err)
	}
	if transport.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", transport.calls)
	}
}

func TestTransportErrorRedactsKey(t *testing.T) {
	client := newTestClient(t, failingTransport{})
	_, err := client.CandidateCommittees(context.Background(), "S4VT00033", 0)
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("error = %v, want upstream failure", err)
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
	if IsNotFound(err) {
		t.Fatalf("transport error must not look like a 404")
	}
}

func newTestClient(t *testing.T, rt http.RoundTripper) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    "https://api.test/v1/",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

type captureTransport struct {
	responses   map[string]responseStub
	lastRequest *http.Request
	calls       int
}

type responseStub struct {
	status int
	header http.Header
	body   []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	c.lastRequest = req
	if stub, ok := c.responses[req.URL.Path]; ok {
		return stub.toResponse(), nil
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func (c *captureTransport) setJSONResponse(path string, status int, payload any) {
	body, _ := json.Marshal(payload)
	c.responses[path] = responseStub{
		status: status,
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   body,
	}
}

func (s responseStub) toResponse() *http.Response {
	header := http.Header{}
	for k, values := range s.header {
		cloned := make([]string, len(values))
		copy(cloned, values)
		header[k] = cloned
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(s.body)),
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: lookup failed for " + req.URL.String())
}
