package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reSpaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)
	reNonDigit = regexp.MustCompile(`[^0-9]`)
	reBlankRun = regexp.MustCompile(`\n[ \t\p{Zs}]*\n\s*`)
)

// CleanName collapses every whitespace run to a single space and trims.
func CleanName(s string) string {
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(norm.NFC.String(s), " "))
}

// DigitsOnly drops everything that is not 0-9.
func DigitsOnly(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}

// normalizeText puts extracted text in NFC with LF line endings, so accented
// labels like "Endereço" match regardless of how the PDF encoded them.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}

// splitBlocks cuts page text on blank-line runs.
func splitBlocks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return reBlankRun.Split(text, -1)
}
