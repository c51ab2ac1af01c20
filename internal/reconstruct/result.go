package reconstruct

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"github.com/sirkon/smpath/internal/diag"
	"github.com/sirkon/smpath/internal/errgraph"
)

// Outcome of a reconstruction request.
type Outcome int

const (
	outcomeInvalid Outcome = iota

	// OutcomePath a path to the violation was found.
	OutcomePath

	// OutcomeNoPath no entry point reaches the violation.
	OutcomeNoPath

	// OutcomeInfeasible facts proved the violation itself impossible.
	OutcomeInfeasible
)

var outcomeValueMap = map[Outcome]string{
	OutcomePath:       "path",
	OutcomeNoPath:     "no-path",
	OutcomeInfeasible: "infeasible",
}

func (o Outcome) String() string {
	v, ok := outcomeValueMap[o]
	if !ok {
		return fmt.Sprintf("invalid(%d)", o)
	}

	return v
}

// UnmarshalText for setting values with fixtures.
func (o *Outcome) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range outcomeValueMap {
		if v == text {
			*o = k
			return nil
		}
	}

	return fmt.Errorf("unknown outcome %q", text)
}

// Code returns the diagnostic code of the outcome.
func (o Outcome) Code() diag.Code {
	switch o {
	case OutcomePath:
		return diag.SMP000PathFound
	case OutcomeNoPath:
		return diag.SMP010NoPath
	case OutcomeInfeasible:
		return diag.SMP020ViolationInfeasible
	default:
		panic(fmt.Sprintf("reconstruct: no code for outcome %s", o))
	}
}

// Result of a reconstruction request.
type Result struct {
	ID        uuid.UUID
	Violation Violation
	Outcome   Outcome

	// Path from an entry node to the violation node, set for OutcomePath only.
	// Empty when the violation is at an entry point itself.
	Path errgraph.Path

	// Graph is the pruned error graph the path belongs to.
	Graph *errgraph.Graph

	// Rounds is the number of inference and pruning rounds done.
	Rounds int

	// Fingerprint identifies the path by its triples. Equal paths to equal
	// violations have equal fingerprints across requests.
	Fingerprint [32]byte
}

// Suppressed returns true if the diagnosis must not be shown: the violation is
// likely a false positive.
func (r *Result) Suppressed() bool {
	return r.Outcome != OutcomePath
}

// Triples returns the sequence of triples the path goes through, starting with the
// entry one.
func (r *Result) Triples() []errgraph.Triple {
	if r.Outcome != OutcomePath {
		return nil
	}

	return pathTriples(r.Graph, r.Path, r.Violation.Triple())
}

// FingerprintString returns the hex form of the fingerprint.
func (r *Result) FingerprintString() string {
	return hex.EncodeToString(r.Fingerprint[:])
}

func pathTriples(g *errgraph.Graph, p errgraph.Path, dst errgraph.Triple) []errgraph.Triple {
	if len(p) == 0 {
		return []errgraph.Triple{dst}
	}

	res := []errgraph.Triple{g.Node(p[0].Src).Triple}
	for _, e := range p {
		res = append(res, g.Node(e.Dst).Triple)
	}

	return res
}

func fingerprint(g *errgraph.Graph, p errgraph.Path, dst errgraph.Triple) [32]byte {
	var buf []byte
	for _, t := range pathTriples(g, p, dst) {
		buf = fmt.Appendf(buf, "%s\x00%s\x00%s\n", t.Point, string(t.Expr), t.State)
	}

	return blake3.Sum256(buf)
}
