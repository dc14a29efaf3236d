package parser

import (
	"regexp"
	"strings"
)

// unitKinds are the unit types printed right after the owner name.
var unitKinds = []string{
	"Loft", "Loja", "Apto", "Casa", "Sala", "Box",
	"Terreno", "Cobertura", "Depot", "Garagem", "Área", "Lotes",
}

const (
	protocolHeader = "Protocolo de Entrega de Correspondência"
	nameChars      = `[\p{Lu}\s.'-]`
	phoneShape     = `(?:\(?\d{2}\)?\s*)?\d{4,5}[-.\s]?\d{4}`
)

// FieldRule pulls one field out of a block: the first capture group of
// Pattern, passed through Normalize.
type FieldRule struct {
	Name      string
	Pattern   *regexp.Regexp
	Normalize func(string) string
}

// Apply reports ok only when the pattern matched and the normalized value is
// non-empty.
func (r FieldRule) Apply(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	v := m[1]
	if r.Normalize != nil {
		v = r.Normalize(v)
	}
	return v, v != ""
}

// FieldRules are evaluated in order; first accepted value wins.
type FieldRules []FieldRule

func (rs FieldRules) First(text string) (value, rule string, ok bool) {
	for _, r := range rs {
		if v, ok := r.Apply(text); ok {
			return v, r.Name, true
		}
	}
	return "", "", false
}

func unitAlternation() string {
	quoted := make([]string, len(unitKinds))
	for i, k := range unitKinds {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// Guarida block layout.
var (
	guaridaNameRules = FieldRules{
		{
			// "Condomino - Endereço JOAO DA SILVA R ..." or name alone on the line.
			Name:      "label",
			Pattern:   regexp.MustCompile(`(?m)Condomino\s*-\s*Endereço\s*(` + nameChars + `+?)(?:\s*$|\s+R\s|\s*` + unitAlternation() + `)`),
			Normalize: CleanName,
		},
		{
			// "12 MARIA DOS SANTOS Loja 3"
			Name:      "code",
			Pattern:   regexp.MustCompile(`(?m)^\s*\d+\s+(` + nameChars + `+?)\s*` + unitAlternation()),
			Normalize: CleanName,
		},
	}

	guaridaPhoneRules = FieldRules{
		{Name: "cel", Pattern: regexp.MustCompile(`Cel\.:\s*(` + phoneShape + `)`), Normalize: DigitsOnly},
		{Name: "tel", Pattern: regexp.MustCompile(`Tel\.:\s*(` + phoneShape + `)`), Normalize: DigitsOnly},
	}
)

// Line layout.
var (
	reUnitMarker = regexp.MustCompile(`\b(?:Loja|Box)\s+(\w*\d\w*|\w+\s+\d+)`)
	reLineCel    = regexp.MustCompile(`Cel\.:\s*([\d()\s.\-]+)`)

	metadataMarkers = []string{"cpf:", "cel.:", "tel.:", "email:"}
)

func hasMetadata(line string) bool {
	l := strings.ToLower(line)
	for _, m := range metadataMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}
