package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// Column headers shared by every export format.
var Header = []string{"Nome do Proprietário", "Celular"}

// CSV renders records under the fixed two-column header. An empty slice still
// yields the header line.
func CSV(records []types.OwnerRecord) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("csv header: %w", err)
	}
	for _, r := range records {
		if err := w.Write([]string{r.OwnerName, r.Phone}); err != nil {
			return "", fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv flush: %w", err)
	}
	return buf.String(), nil
}
