package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// Store keeps finished extractions by id. Get returns common.ErrNotFound for
// ids that were never stored, have been evicted, or have outlived the
// store's ttl.
type Store interface {
	Put(ctx context.Context, ex types.Extraction) error
	Get(ctx context.Context, id string) (types.Extraction, error)
	EvictOlderThan(ctx context.Context, age time.Duration) (int, error)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", common.ErrNotFound, id)
}

func clone(ex types.Extraction) types.Extraction {
	ex.Records = append(make([]types.OwnerRecord, 0, len(ex.Records)), ex.Records...)
	return ex
}

func expired(ex types.Extraction, now time.Time, age time.Duration) bool {
	return now.Sub(ex.CreatedAt) > age
}

// RunJanitor evicts entries older than ttl every interval until ctx is done.
func RunJanitor(ctx context.Context, s Store, ttl, interval time.Duration, log logrus.FieldLogger) {
	log = logging.For(log, logging.Job)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.EvictOlderThan(ctx, ttl)
			if err != nil {
				log.WithError(err).Warn("evicting old extractions")
				continue
			}
			if n > 0 {
				log.WithField("evicted", n).Info("cleaned up old extractions")
			}
		}
	}
}
