package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fundwatch/internal/bootstrap"
	"fundwatch/internal/domain"
	"fundwatch/internal/roster"
)

func politiciansCmd() *cobra.Command {
	var (
		office     string
		candidates bool
	)
	cmd := &cobra.Command{
		Use:   "politicians",
		Short: "List sitting members or all candidates",
		Example: `  fundctl politicians --office senator
  fundctl politicians --office house --candidates --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f roster.Filter
			if office != "" {
				o, err := domain.ParseOffice(office)
				if err != nil {
					return err
				}
				f.Office = o
			}
			f.IncludeCandidates = candidates

			return withServices(cmd, func(s *bootstrap.Services) error {
				listing, err := s.Roster.List(cmd.Context(), f)
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), listing)
				}
				return printPoliticians(cmd.OutOrStdout(), listing)
			})
		},
	}
	cmd.Flags().StringVar(&office, "office", "", "senator or representative (default: both)")
	cmd.Flags().BoolVar(&candidates, "candidates", false, "include every candidate, not just one per seat")
	return cmd
}

func printPoliticians(out io.Writer, listing *roster.Listing) error {
	if listing.IsMockData {
		fmt.Fprintln(out, "NOTE: bundled roster, not from the disclosure API")
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CID\tName\tParty\tState\tPosition\tDistrict\tIncumbent")
	for _, p := range listing.Politicians {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n", p.CandidateID, p.Name, p.Party, p.State, p.Office, p.District, p.IsIncumbent)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats := listing.Stats
	fmt.Fprintf(out, "\n%d politicians: %d senators, %d representatives\n", stats.Total, stats.Senators, stats.Representatives)
	states := make([]string, 0, len(stats.SenatorCountsByState))
	for state := range stats.SenatorCountsByState {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		fmt.Fprintf(out, "  %s: %d senators\n", state, stats.SenatorCountsByState[state])
	}
	return nil
}
