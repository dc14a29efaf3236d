package ingest

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// blockGap is how many median line pitches separate two blocks.
const blockGap = 1.6

// ParsePDF extracts text page by page. A page that cannot be read comes back
// empty; only a document that cannot be opened is an error.
func ParsePDF(ctx context.Context, name string, content []byte) (types.Document, error) {
	doc := types.Document{Name: name}

	r, err := openPDF(content)
	if err != nil {
		return doc, common.NewAppError(common.CodeExtraction, fmt.Sprintf("open %q: %v", name, err), common.ErrExtraction)
	}

	n := r.NumPage()
	doc.Pages = make([]types.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return doc, common.NewAppError(common.CodeExtraction, fmt.Sprintf("%q stopped at page %d: %v", name, i, err), common.ErrExtraction)
		}
		page := types.Page{Number: i}
		page.Text, page.Blocks = readPage(r.Page(i))
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

func openPDF(content []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

func readPage(p pdf.Page) (text string, blocks []string) {
	defer func() {
		if recover() != nil {
			text, blocks = "", nil
		}
	}()
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err == nil && len(rows) > 0 {
		return layoutRows(rows)
	}
	plain, err := p.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return plain, nil
}

// layoutRows turns positioned rows into lines, starting a new block wherever
// the vertical gap is clearly larger than the usual line pitch.
func layoutRows(rows pdf.Rows) (string, []string) {
	sorted := make([]*pdf.Row, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	// PDF y grows upwards: top of page first.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	var pitches []float64
	for i := 1; i < len(sorted); i++ {
		if d := float64(sorted[i-1].Position - sorted[i].Position); d > 0 {
			pitches = append(pitches, d)
		}
	}
	limit := math.Inf(1)
	if len(pitches) >= 2 {
		limit = median(pitches) * blockGap
	}

	var blocks []string
	var cur []string
	for i, r := range sorted {
		line := rowText(r.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if i > 0 && len(cur) > 0 && float64(sorted[i-1].Position-r.Position) > limit {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return strings.Join(blocks, "\n\n"), blocks
}

func rowText(items pdf.TextHorizontal) string {
	sorted := make([]pdf.Text, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	var prevEnd float64
	for i, t := range sorted {
		if i > 0 && t.X-prevEnd > spaceWidth(t.FontSize) {
			s := b.String()
			if !strings.HasSuffix(s, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.TrimRight(b.String(), " ")
}

func spaceWidth(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1
	}
	return fontSize * 0.2
}

func median(v []float64) float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}
