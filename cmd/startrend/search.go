package main

import (
	"github.com/spf13/cobra"

	"github.com/rohankatakam/startrend/internal/config"
	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/models"
	"github.com/rohankatakam/startrend/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank repositories by stars gained inside a date window",
	Long: `Searches GitHub for repositories and counts the stars each one gained
between --start and --end (inclusive calendar days). GitHub keeps about 90 days
of events, so older start dates are raised to that horizon.

Examples:
  # Go repositories trending over the last two weeks
  startrend search --language Go --start 2026-10-02

  # Only repositories that gained at least 50 stars, as JSON
  startrend search --name llm --min-increased-stars 50 --format json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var searchFlags struct {
	req    models.SearchRequest
	format string
	color  string
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.req.Name, "name", "", "match repository names containing this text")
	f.StringVar(&searchFlags.req.Language, "language", "", "primary language (see 'startrend languages')")
	f.StringVar(&searchFlags.req.StartDate, "start", "", "first day of the window, YYYY-MM-DD")
	f.StringVar(&searchFlags.req.EndDate, "end", "", "last day of the window, YYYY-MM-DD (default: today)")
	f.IntVar(&searchFlags.req.MinStars, "min-stars", 0, "minimum total stars (default 100)")
	f.IntVar(&searchFlags.req.MinIncreasedStars, "min-increased-stars", 0, "hide repositories that gained fewer stars")
	f.StringVar(&searchFlags.format, "format", "", "output format: table, json, quiet")
	f.StringVar(&searchFlags.color, "color", "auto", "color mode: auto, always, never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(searchFlags.format)
	if err != nil {
		return errors.ValidationError(err.Error())
	}
	colorMode, err := output.ParseColorMode(searchFlags.color)
	if err != nil {
		return errors.ValidationError(err.Error())
	}

	svc, err := buildService(cfg, config.ValidationContextSearch, logger)
	if err != nil {
		return err
	}

	resp, err := svc.Search(cmd.Context(), searchFlags.req)
	if err != nil {
		return err
	}

	return output.NewFormatter(format, output.ResolveColors(colorMode)).Format(resp, cmd.OutOrStdout())
}
