package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fundwatch/internal/bootstrap"
	"fundwatch/internal/donors"
)

func donorsCmd() *cobra.Command {
	var (
		cycle int
		top   int
	)
	cmd := &cobra.Command{
		Use:   "donors <candidate-id>",
		Short: "Show the top donors of a candidate",
		Long: `Resolve the candidate's committees, page through their itemized receipts and
print the ranked donor list with an industry and donor-type summary.`,
		Example: "  fundctl donors S4VT00033 --cycle 2024 --top 10",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(s *bootstrap.Services) error {
				res, err := s.Donors.Lookup(cmd.Context(), donors.Request{CandidateID: args[0], Cycle: cycle, TopN: top})
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return printDonors(cmd.OutOrStdout(), res, s.Donors.Classifier())
			})
		},
	}
	cmd.Flags().IntVar(&cycle, "cycle", 0, "two-year period to query (default: current)")
	cmd.Flags().IntVar(&top, "top", 0, "number of donors to show (default: DONOR_TOP_N)")
	return cmd
}

func printDonors(out io.Writer, res *donors.Result, classifier *donors.Classifier) error {
	fmt.Fprintf(out, "Candidate %s, cycle %d (source: %s)\n", res.CandidateID, res.Cycle, res.Source)
	if res.IsMockData {
		fmt.Fprintln(out, "NOTE: example data, not from the disclosure API")
	}
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	if len(res.Donors) == 0 {
		return nil
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDonor\tIndustry\tType\tAmount\t")
	for i, d := range res.Donors {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", i+1, d.Name, d.Industry, classifier.Classify(d.Name), d.Amount.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %s\n", res.Summary.Total.StringFixed(2))
	if d := res.Summary.DominantIndustry; d != nil {
		fmt.Fprintf(out, "Dominant industry: %s (%s)\n", d.Name, d.Amount.StringFixed(2))
	}
	fmt.Fprintf(out, "\n%s\n", res.Summary.Impact)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
