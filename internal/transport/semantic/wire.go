// Package semantic holds the semantic similarity service wire contract and its HTTP client.
package semantic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the GET /semantic/status response.
type Status struct {
	Available       bool `json:"available"`
	EmbeddingsCount int  `json:"embeddings_count"`
}

// Candidate is one rerank input: the document's text fields plus its raw index score.
// It marshals flat: {"id": ..., "title": ..., "score": ...}.
type Candidate struct {
	ID     string
	Fields map[string]string
	Score  float64
}

// MarshalJSON flattens the candidate.
func (c Candidate) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		m[k] = v
	}
	m["id"] = c.ID
	m["score"] = c.Score
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate %s: %w", c.ID, err)
	}
	return b, nil
}

// UnmarshalJSON accepts flat candidates. Non-string field values are kept in their JSON text form.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal candidate: %w", err)
	}
	out := Candidate{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case "id":
			id, err := looseID(v)
			if err != nil {
				return fmt.Errorf("candidate id: %w", err)
			}
			out.ID = id
		case "score":
			out.Score = looseFloat(v)
		default:
			out.Fields[k] = looseString(v)
		}
	}
	*c = out
	return nil
}

// looseID reads a string or numeric id.
func looseID(v json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(v, &s)
	if err == nil {
		return s, nil
	}
	var n json.Number
	if json.Unmarshal(v, &n) != nil {
		return "", err
	}
	return n.String(), nil
}

// looseString reads a JSON string, keeping any other value in its JSON text form.
func looseString(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	return string(v)
}

// looseFloat reads a number or a numeric string; anything else is 0.
func looseFloat(v json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(v, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// RerankRequest is the POST /semantic/rerank body. Absent settings take the server defaults;
// a weight sent as 0 is honored.
type RerankRequest struct {
	Query          string      `json:"query"`
	Candidates     []Candidate `json:"candidates"`
	TopK           *int        `json:"top_k,omitempty"`
	KeywordWeight  *float64    `json:"keyword_weight,omitempty"`
	SemanticWeight *float64    `json:"semantic_weight,omitempty"`
}

// Result is one reranked candidate. Fields are echoed back flat next to the scores.
type Result struct {
	ID            string            `json:"id"`
	SemanticScore float64           `json:"semantic_score"`
	KeywordScore  float64           `json:"keyword_score"`
	CombinedScore float64           `json:"combined_score"`
	Fields        map[string]string `json:"-"`
}

// MarshalJSON flattens the echoed fields into the result object.
func (r Result) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["id"] = r.ID
	m["semantic_score"] = r.SemanticScore
	m["keyword_score"] = r.KeywordScore
	m["combined_score"] = r.CombinedScore
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal result %s: %w", r.ID, err)
	}
	return b, nil
}

// UnmarshalJSON reads a flat result, collecting unknown keys into Fields.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	out := Result{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case "id":
			id, err := looseID(v)
			if err != nil {
				return fmt.Errorf("result id: %w", err)
			}
			out.ID = id
		case "semantic_score":
			out.SemanticScore = looseFloat(v)
		case "keyword_score":
			out.KeywordScore = looseFloat(v)
		case "combined_score":
			out.CombinedScore = looseFloat(v)
		default:
			out.Fields[k] = looseString(v)
		}
	}
	*r = out
	return nil
}

// RerankResponse is the POST /semantic/rerank response.
type RerankResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Results []Result `json:"results"`
}
