package diag

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Reporter collects coded reports of reconstruction requests. Requests may report
// concurrently.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report is an outcome of one phase of a request.
type Report struct {
	Phase   Phase
	Code    Code
	Request string
	Subject string
	Message string
}

// Phase marks the reconstruction stage where a report was generated.
type Phase int

const (
	phaseInvalid Phase = iota
	PhaseBuild         // error graph construction
	PhasePrune         // fact inference and pruning
	PhaseSearch        // shortest path search
)

func (p Phase) String() string {
	switch p {
	case PhaseBuild:
		return "build"
	case PhasePrune:
		return "prune"
	case PhaseSearch:
		return "search"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// PhaseReporter binds a Reporter to a fixed phase.
type PhaseReporter struct {
	parent *Reporter
	phase  Phase
}

// Phase returns a phase-bound reporter that sets the given phase for all reports
// produced through it.
func (r *Reporter) Phase(p Phase) *PhaseReporter {
	return &PhaseReporter{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records an outcome of the request under the bound phase. An empty message
// is replaced with the code description.
func (rp *PhaseReporter) Report(code Code, request, subject, message string) {
	if message == "" {
		message = code.Description()
	}
	rp.parent.Report(Report{
		Phase:   rp.phase,
		Code:    code,
		Request: request,
		Subject: subject,
		Message: message,
	})
}

// Reports returns a snapshot of all collected records in the order of arrival.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Request returns reports of the request.
func (r *Reporter) Request(id string) []Report {
	var res []Report
	for _, rep := range r.Reports() {
		if rep.Request == id {
			res = append(res, rep)
		}
	}

	return res
}

// Counts returns the number of reports per code.
func (r *Reporter) Counts() map[Code]int {
	res := map[Code]int{}
	for _, rep := range r.Reports() {
		res[rep.Code]++
	}

	return res
}

// PrintSummary prints reports ordered by code and subject, then the number of
// reports per code and how many diagnoses were suppressed.
func (r *Reporter) PrintSummary(w io.Writer) error {
	reps := r.Reports()
	slices.SortStableFunc(reps, func(a, b Report) int {
		return cmp.Or(
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Subject, b.Subject),
			cmp.Compare(a.Request, b.Request),
		)
	})

	var sb strings.Builder
	for _, rep := range reps {
		sb.WriteString(fmt.Sprintf("[%s] %s %s — %s\n", rep.Phase, rep.Code, rep.Subject, rep.Message))
	}

	counts := r.Counts()
	codes := slices.Sorted(maps.Keys(counts))
	var suppressed int
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("%s: %d\n", code, counts[code]))
		if code.Suppressing() {
			suppressed += counts[code]
		}
	}
	sb.WriteString(fmt.Sprintf("%d of %d diagnoses suppressed\n", suppressed, len(reps)))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}
