package menurank

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Diagnostic step names, in the order Diagnose runs them.
const (
	StepIndexPing      = "index_ping"
	StepIndexDocuments = "index_documents"
	StepSemantic       = "semantic_status"
	StepSampleSearch   = "sample_search"
)

// StepStatus is the outcome of one diagnostic step.
type StepStatus string

// Step outcomes.
const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// SampleQueries are searched once the index holds documents.
var SampleQueries = []string{"", "yuzu", "ramen"}

// Step is one diagnostic check.
type Step struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
	Hint   string     `json:"hint,omitempty"` // remediation, set on failure
}

// Diagnosis is the ordered result of Diagnose.
type Diagnosis struct {
	Steps []Step
}

// OK reports whether no step failed.
func (d Diagnosis) OK() bool {
	_, failed := d.FirstFailure()
	return !failed
}

// FirstFailure returns the earliest failed step.
func (d Diagnosis) FirstFailure() (Step, bool) {
	for _, s := range d.Steps {
		if s.Status == StepFailed {
			return s, true
		}
	}
	return Step{}, false
}

// Diagnose checks, in order: index ping, document count, semantic service status,
// then a few sample searches. Steps that depend on a failed step are skipped.
// Diagnose itself never fails; problems are reported as failed steps.
func (c *Client) Diagnose(ctx context.Context) Diagnosis {
	start := time.Now()
	var d Diagnosis

	pingErr := c.index.Ping(ctx)
	d.Steps = append(d.Steps, indexStep(StepIndexPing, "index answers ping", pingErr))

	docs := 0
	if pingErr != nil {
		d.Steps = append(d.Steps, skipped(StepIndexDocuments, "index ping failed"))
	} else {
		n, err := c.index.Count(ctx)
		docs = n
		switch {
		case err != nil:
			d.Steps = append(d.Steps, indexStep(StepIndexDocuments, "", err))
		case n == 0:
			d.Steps = append(d.Steps, Step{
				Name:   StepIndexDocuments,
				Status: StepFailed,
				Detail: "index core holds no documents",
				Hint:   "load the catalog into the index core, then re-run diagnose",
			})
		default:
			d.Steps = append(d.Steps, Step{
				Name:   StepIndexDocuments,
				Status: StepOK,
				Detail: strconv.Itoa(n) + " documents",
			})
		}
	}

	d.Steps = append(d.Steps, c.semanticStep(ctx))

	if docs == 0 {
		d.Steps = append(d.Steps, skipped(StepSampleSearch, "index has no searchable documents"))
	} else {
		d.Steps = append(d.Steps, c.sampleSearchStep(ctx))
	}

	var err error
	if f, failed := d.FirstFailure(); failed {
		err = errors.New(f.Name + ": " + f.Detail)
	}
	c.obs.observe("diagnose", start, err)
	return d
}

func (c *Client) semanticStep(ctx context.Context) Step {
	if c.semantic == nil {
		return skipped(StepSemantic, "semantic service not configured, ranking is keyword-only")
	}
	st, err := c.semantic.Status(ctx)
	if err != nil {
		return Step{
			Name:   StepSemantic,
			Status: StepFailed,
			Detail: err.Error(),
			Hint:   "start the semantic server (semanticd) or unset the semantic base URL",
		}
	}
	if !st.Available {
		return Step{
			Name:   StepSemantic,
			Status: StepFailed,
			Detail: "semantic service reports unavailable",
			Hint:   "check the embedding provider credentials and model of the semantic server",
		}
	}
	return Step{
		Name:   StepSemantic,
		Status: StepOK,
		Detail: fmt.Sprintf("available, %d document embeddings", st.EmbeddingsCount),
	}
}

func (c *Client) sampleSearchStep(ctx context.Context) Step {
	detail := ""
	for i, q := range SampleQueries {
		res, err := c.Search(ctx, q, Rows(5), Limit(5), KeywordOnly())
		if err != nil {
			return indexStep(StepSampleSearch, "", err)
		}
		if i > 0 {
			detail += ", "
		}
		detail += fmt.Sprintf("%q: %d", q, res.NumFound)
	}
	return Step{Name: StepSampleSearch, Status: StepOK, Detail: detail}
}

func skipped(name, reason string) Step {
	return Step{Name: name, Status: StepSkipped, Detail: reason}
}

// indexStep classifies an index error into a failed step with a matching hint.
func indexStep(name, okDetail string, err error) Step {
	if err == nil {
		return Step{Name: name, Status: StepOK, Detail: okDetail}
	}
	s := Step{Name: name, Status: StepFailed, Detail: err.Error()}
	switch {
	case errors.Is(err, ErrIndexUnreachable):
		s.Hint = "start the index server and check the index base URL"
	case errors.Is(err, ErrIndexCrossOrigin):
		s.Hint = "allow this origin on the index or its proxy, or unset the index origin"
	default:
		s.Hint = "check that the index core exists and its logs for errors"
	}
	return s
}
