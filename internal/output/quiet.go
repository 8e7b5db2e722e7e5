package output

import (
	"fmt"
	"io"

	"github.com/rohankatakam/startrend/internal/models"
)

// QuietFormatter prints "owner/repo<TAB>growth" per result, degraded rows marked with '?'
type QuietFormatter struct{}

func (f *QuietFormatter) Format(resp *models.SearchResponse, w io.Writer) error {
	for _, r := range resp.Results {
		mark := ""
		if r.Degraded {
			mark = "?"
		}
		if _, err := fmt.Fprintf(w, "%s\t%d%s\n", r.FullName, r.IncreasedStars, mark); err != nil {
			return err
		}
	}
	return nil
}
