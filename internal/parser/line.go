package parser

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// LineScanner walks the text line by line and opens a new record at every
// "Loja"/"Box" unit marker. Incomplete records (name-only, phone-only, even
// empty) are kept.
type LineScanner struct {
	log logrus.FieldLogger
}

func NewLineScanner(log logrus.FieldLogger) *LineScanner {
	return &LineScanner{log: logging.For(log, logging.Parser).WithField("strategy", "line")}
}

// Parse treats all pages as one stream, so an owner split by a page break
// stays a single record.
func (s *LineScanner) Parse(doc types.Document) []types.OwnerRecord {
	st := &lineState{out: []types.OwnerRecord{}, log: s.log}
	for _, p := range doc.Pages {
		text := normalizeText(p.Text)
		if strings.TrimSpace(text) == "" {
			s.log.WithField("page", p.Number).Warn("no text extracted from page")
			continue
		}
		st.page = p.Number
		for _, line := range strings.Split(text, "\n") {
			st.feed(line)
		}
	}
	st.flush()
	return st.out
}

type lineState struct {
	cur  *types.OwnerRecord
	out  []types.OwnerRecord
	page int
	log  logrus.FieldLogger
}

func (st *lineState) feed(line string) {
	if strings.Contains(line, protocolHeader) {
		return
	}
	if reUnitMarker.MatchString(line) {
		st.flush()
		st.cur = &types.OwnerRecord{}
		return
	}
	if st.cur == nil {
		return
	}
	if st.cur.Phone == "" {
		if m := reLineCel.FindStringSubmatch(line); m != nil {
			st.cur.Phone = DigitsOnly(m[1])
			return
		}
	}
	if st.cur.OwnerName == "" && !hasMetadata(line) {
		st.cur.OwnerName = CleanName(line)
	}
}

func (st *lineState) flush() {
	if st.cur == nil {
		return
	}
	if st.cur.OwnerName == "" || st.cur.Phone == "" {
		st.log.WithFields(logrus.Fields{
			"page":  st.page,
			"owner": st.cur.OwnerName,
			"phone": st.cur.Phone,
		}).Debug("incomplete owner record")
	}
	st.out = append(st.out, *st.cur)
	st.cur = nil
}
