package parser

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// BlockScanner reads one owner per blank-line separated block. Blocks without
// a recognizable name are dropped; a missing phone is not a reason to drop.
type BlockScanner struct {
	names  FieldRules
	phones FieldRules
	log    logrus.FieldLogger
}

func NewBlockScanner(log logrus.FieldLogger) *BlockScanner {
	return &BlockScanner{
		names:  guaridaNameRules,
		phones: guaridaPhoneRules,
		log:    logging.For(log, logging.Parser).WithField("strategy", "block"),
	}
}

func (s *BlockScanner) Parse(doc types.Document) []types.OwnerRecord {
	out := []types.OwnerRecord{}
	for _, p := range doc.Pages {
		plog := s.log.WithField("page", p.Number)
		blocks := pageBlocks(p)
		if len(blocks) == 0 {
			plog.Warn("no text extracted from page")
			continue
		}
		plog.WithField("blocks", len(blocks)).Debug("scanning page")

		for i, b := range blocks {
			if strings.TrimSpace(b) == "" {
				continue
			}
			rec, ok := s.ParseBlock(b)
			if !ok {
				plog.WithField("block", i+1).Debug("no owner name in block")
				continue
			}
			if rec.Phone == "" {
				plog.WithFields(logrus.Fields{"block": i + 1, "owner": rec.OwnerName}).Debug("no phone for owner")
			}
			out = append(out, rec)
		}
	}
	return out
}

// ParseBlock extracts a record from a single block.
func (s *BlockScanner) ParseBlock(block string) (types.OwnerRecord, bool) {
	block = normalizeText(block)
	name, _, ok := s.names.First(block)
	if !ok {
		return types.OwnerRecord{}, false
	}
	phone, _, _ := s.phones.First(block)
	return types.OwnerRecord{OwnerName: name, Phone: phone}, true
}

func pageBlocks(p types.Page) []string {
	if p.Blocks != nil {
		return p.Blocks
	}
	return splitBlocks(normalizeText(p.Text))
}
