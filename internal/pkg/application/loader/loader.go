package loader

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/dataflow"
	"github.com/CTU-SematX/LegoCity/internal/pkg/application/transcode"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const (
	ReadinessAttempts = 30
	ReadinessDelay    = 2 * time.Second
)

// Loader pushes locally held entities into a context broker, creating
// them and falling back to an attribute patch for the ones the broker
// already knows about.
type Loader struct {
	broker client.ContextBrokerClient
}

func New(broker client.ContextBrokerClient) *Loader {
	return &Loader{broker: broker}
}

// WaitForBroker blocks until the broker answers its version endpoint or
// the attempts run out.
func (l *Loader) WaitForBroker(ctx context.Context) error {
	return l.broker.WaitForReadiness(ctx, ReadinessAttempts, ReadinessDelay)
}

// LoadDirectory upserts every entity found in the CSV files of a
// directory. Rows without an id and files that fail to parse contribute
// nothing, and a single failed upsert never aborts the batch.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (*ngsild.UpsertSummary, error) {
	log := logging.GetFromContext(ctx)
	summary := &ngsild.UpsertSummary{}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		declaredType := fileStem(path)

		_, rows, err := dataflow.ReadCSVRows(path)
		if err != nil {
			log.Warn("failed to read csv file", "file", path, "err", err.Error())
			continue
		}

		for _, row := range rows {
			e, ok := transcode.FromRow(row, declaredType)
			if !ok {
				continue
			}

			created, err := l.broker.Upsert(ctx, e)
			if err != nil {
				log.Error("failed to upsert entity", "entity_id", e.ID(), "err", err.Error())
				summary.RecordFailure(e.ID(), err)
				continue
			}

			if created {
				summary.RecordCreated()
			} else {
				summary.RecordUpdated()
			}
		}

		log.Info("loaded csv file", "file", path)
	}

	log.Info("batch complete",
		"created", summary.Created, "updated", summary.Updated, "failed", len(summary.Failed),
	)

	return summary, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
