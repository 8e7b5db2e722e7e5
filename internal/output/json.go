package output

import (
	"encoding/json"
	"io"

	"github.com/rohankatakam/startrend/internal/models"
)

// JSONFormatter writes the response as JSON
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) Format(resp *models.SearchResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
