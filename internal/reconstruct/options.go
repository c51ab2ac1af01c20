package reconstruct

import (
	"log/slog"

	"github.com/sirkon/smpath/internal/diag"
)

// Options of a [Reconstructor]. The zero value means no limits, no validation and no
// side outputs.
type Options struct {
	// MaxSteps limits error graph construction by the number of expanded nodes.
	MaxSteps int

	// MaxPruneRounds limits the number of inference and pruning rounds.
	MaxPruneRounds int

	// Strict validates transition records against the supergraph while building.
	Strict bool

	// Workers limits the number of concurrent requests of ReconstructAll. Defaults
	// to GOMAXPROCS.
	Workers int

	Logger   *slog.Logger
	Metrics  *Metrics
	Reporter *diag.Reporter

	// Exporter receives pruned error graphs of violations that survived pruning.
	Exporter *Exporter
}
