package ingest

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

const (
	TypePDF     = "pdf"
	TypeText    = "text"
	TypeUnknown = "unknown"
)

var pdfMagic = []byte("%PDF-")

func DetectType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return TypePDF
	case ".txt":
		return TypeText
	default:
		return TypeUnknown
	}
}

// Check rejects uploads whose extension or signature is not one we read.
func Check(name string, content []byte) (string, error) {
	if len(content) == 0 {
		return TypeUnknown, invalid("empty file %q", name)
	}
	t := DetectType(name)
	switch t {
	case TypePDF:
		if !bytes.HasPrefix(content, pdfMagic) {
			return t, invalid("%q has no PDF signature", name)
		}
	case TypeText:
		if !utf8.Valid(content) {
			return t, invalid("%q is not valid UTF-8", name)
		}
	default:
		return t, invalid("only PDF files are accepted, got %q", name)
	}
	return t, nil
}

func invalid(format string, args ...any) error {
	return common.NewAppError(common.CodeInvalidInput, fmt.Sprintf(format, args...), common.ErrInvalidInput)
}

// Extract checks the upload and turns it into pages.
func Extract(ctx context.Context, name string, content []byte) (types.Document, error) {
	t, err := Check(name, content)
	if err != nil {
		return types.Document{Name: name}, err
	}
	if t == TypeText {
		return ParseText(name, content), nil
	}
	return ParsePDF(ctx, name, content)
}
