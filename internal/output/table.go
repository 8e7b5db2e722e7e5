package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rohankatakam/startrend/internal/models"
)

var tableHeader = []string{"#", "Repository", "Language", "Stars", "Growth", "Status"}

// TableFormatter renders a ranked table followed by a summary footer
type TableFormatter struct {
	Colors bool
}

func (f *TableFormatter) Format(resp *models.SearchResponse, w io.Writer) error {
	green := f.paint(color.FgGreen, color.Bold)
	yellow := f.paint(color.FgYellow)
	faint := f.paint(color.Faint)

	fmt.Fprintf(w, "Trending %s .. %s  (%s)\n\n", resp.EffectiveStart, resp.EffectiveEnd, faint(resp.Query))

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No repositories matched.")
		return nil
	}

	rows := make([][]string, 0, len(resp.Results))
	for i, r := range resp.Results {
		growth := "+" + strconv.Itoa(r.IncreasedStars)
		status := statusLabel(r.Status)
		if r.Degraded {
			growth = yellow(growth + "*")
			status = yellow(status)
		} else if r.IncreasedStars > 0 {
			growth = green(growth)
		}
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.FullName,
			lang,
			strconv.Itoa(r.StarCount),
			growth,
			status,
		})
	}

	table := newTable(w)
	table.Header(tableHeader)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := resp.Stats
	fmt.Fprintf(w, "\n%d candidates, %d fetched, %d from cache", s.Candidates, s.Fetched, s.CacheHits)
	if s.Filtered > 0 {
		fmt.Fprintf(w, ", %d below threshold", s.Filtered)
	}
	fmt.Fprintln(w)
	if s.Degraded > 0 {
		fmt.Fprintln(w, yellow(fmt.Sprintf("* %d repositories could not be counted (shown as +0); try again later", s.Degraded)))
	}
	return nil
}

// paint returns a sprint func that colors only when the formatter allows it
func (f *TableFormatter) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if f.Colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}
