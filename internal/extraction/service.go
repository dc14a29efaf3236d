package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/internal/ingest"
	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/internal/parser"
	"github.com/MalithGihan/protocol-extract/internal/store"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// Service runs uploads through extraction and parsing and keeps the result.
type Service struct {
	registry        *parser.Registry
	store           store.Store
	log             logrus.FieldLogger
	timeout         time.Duration
	defaultProvider string
}

type Options struct {
	// Timeout bounds extraction of a single document.
	Timeout         time.Duration
	DefaultProvider string
}

func NewService(reg *parser.Registry, st store.Store, log logrus.FieldLogger, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = parser.ProviderGuarida
	}
	return &Service{
		registry:        reg,
		store:           st,
		log:             logging.For(log, logging.App),
		timeout:         opts.Timeout,
		defaultProvider: opts.DefaultProvider,
	}
}

type Submission struct {
	Filename string
	Content  []byte
	Provider string // empty means the default provider
}

// Submit processes a document and stores the records under a new id.
// Nothing is stored when any step fails.
func (s *Service) Submit(ctx context.Context, sub Submission) (types.Extraction, error) {
	provider := s.provider(sub.Provider)
	doc, records, err := s.Process(ctx, sub.Filename, sub.Content, provider)
	if err != nil {
		return types.Extraction{}, err
	}

	ex := types.Extraction{
		ID:        uuid.NewString(),
		Provider:  provider,
		Filename:  sub.Filename,
		Pages:     len(doc.Pages),
		Records:   records,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, ex); err != nil {
		s.log.WithError(err).WithField("extraction_id", ex.ID).Error("storing extraction")
		return types.Extraction{}, common.WrapError(err, "storing extraction")
	}
	s.log.WithFields(logrus.Fields{
		"extraction_id": ex.ID,
		"provider":      provider,
		"records":       len(records),
	}).Info("extraction completed")
	return ex, nil
}

// Process extracts and parses without storing anything.
func (s *Service) Process(ctx context.Context, filename string, content []byte, provider string) (types.Document, []types.OwnerRecord, error) {
	provider = s.provider(provider)
	log := s.log.WithFields(logrus.Fields{"file": filename, "provider": provider})

	strategy, err := s.registry.Get(provider)
	if err != nil {
		log.WithError(err).Warn("unsupported provider")
		return types.Document{}, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := ingest.Extract(ctx, filename, content)
	if err != nil {
		log.WithError(err).Error("extracting document text")
		return doc, nil, err
	}
	log.WithField("pages", len(doc.Pages)).Info("document text extracted")

	records := strategy.Parse(doc)
	log.WithField("records", len(records)).Info("document parsed")
	return doc, records, nil
}

func (s *Service) Results(ctx context.Context, id string) ([]types.OwnerRecord, error) {
	ex, err := s.Extraction(ctx, id)
	if err != nil {
		return nil, err
	}
	return ex.Records, nil
}

func (s *Service) Extraction(ctx context.Context, id string) (types.Extraction, error) {
	ex, err := s.store.Get(ctx, id)
	if err != nil {
		s.log.WithField("extraction_id", id).WithError(err).Debug("extraction lookup failed")
		return types.Extraction{}, err
	}
	return ex, nil
}

func (s *Service) Providers() []string { return s.registry.Providers() }

func (s *Service) provider(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return s.defaultProvider
	}
	return p
}
