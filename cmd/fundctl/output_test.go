package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundwatch/internal/donors"
	"fundwatch/internal/roster"
)

func mockResult(t *testing.T) *donors.Result {
	t.Helper()
	list := donors.MockDonors("S4VT00033")
	require.NotEmpty(t, list)
	classifier := donors.DefaultClassifier()
	return &donors.Result{
		CandidateID: "S4VT00033",
		Cycle:       2024,
		Source:      donors.SourceMock,
		Donors:      list,
		Summary:     donors.Summarize(list, classifier),
		IsMockData:  true,
	}
}

func TestPrintDonors(t *testing.T) {
	res := mockResult(t)

	var out bytes.Buffer
	require.NoError(t, printDonors(&out, res, donors.DefaultClassifier()))

	text := out.String()
	assert.Contains(t, text, "Candidate S4VT00033, cycle 2024 (source: mock)")
	assert.Contains(t, text, "example data")
	assert.Contains(t, text, res.Donors[0].Name)
	assert.Contains(t, text, "Total: "+res.Summary.Total.StringFixed(2))
}

func TestPrintDonorsWithoutDonors(t *testing.T) {
	res := &donors.Result{CandidateID: "H8NY15148", Cycle: 2024, Source: donors.SourceCandidate}

	var out bytes.Buffer
	require.NoError(t, printDonors(&out, res, donors.DefaultClassifier()))
	assert.NotContains(t, out.String(), "Total:")
}

func TestPrintPoliticians(t *testing.T) {
	all := roster.FallbackRoster()
	listing := &roster.Listing{Politicians: all, Stats: roster.ComputeStats(all), IsMockData: true}

	var out bytes.Buffer
	require.NoError(t, printPoliticians(&out, listing))

	text := out.String()
	assert.Contains(t, text, "bundled roster")
	for _, p := range all {
		assert.Contains(t, text, p.CandidateID)
	}
	assert.Contains(t, text, "VT: 1 senators")
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, mockResult(t)))

	var decoded struct {
		CandidateID string           `json:"cid"`
		Donors      []map[string]any `json:"donors"`
		IsMockData  bool             `json:"isMockData"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "S4VT00033", decoded.CandidateID)
	assert.True(t, decoded.IsMockData)
	assert.NotEmpty(t, decoded.Donors)
}
