package ingest

import (
	"strings"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// ParseText reads a pdftotext-style dump: pages separated by form feeds.
func ParseText(name string, content []byte) types.Document {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	doc := types.Document{Name: name, Pages: make([]types.Page, 0, len(parts))}
	for i, p := range parts {
		doc.Pages = append(doc.Pages, types.Page{Number: i + 1, Text: p})
	}
	return doc
}
