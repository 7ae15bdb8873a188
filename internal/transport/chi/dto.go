package chi

import (
	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	searchuc "github.com/kailas-cloud/menurank/internal/usecase/search"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest              ErrorCode = "bad_request"
	ErrorCodeValidationFailed        ErrorCode = "validation_failed"
	ErrorCodeUnauthorized            ErrorCode = "unauthorized"
	ErrorCodeNotFound                ErrorCode = "not_found"
	ErrorCodeIndexUnreachable        ErrorCode = "index_unreachable"
	ErrorCodeIndexCrossOriginBlocked ErrorCode = "index_cross_origin_blocked"
	ErrorCodeIndexError              ErrorCode = "index_error"
	ErrorCodeInternalError           ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the GET /search query parameters.
type SearchParams struct {
	Q        *string  `form:"q,omitempty" json:"q,omitempty"`
	Mode     *string  `form:"mode,omitempty" json:"mode,omitempty"`
	Section  *string  `form:"section,omitempty" json:"section,omitempty"`
	Category *string  `form:"category,omitempty" json:"category,omitempty"`
	Tag      *string  `form:"tag,omitempty" json:"tag,omitempty"`
	PriceMin *float64 `form:"price_min,omitempty" json:"price_min,omitempty"`
	PriceMax *float64 `form:"price_max,omitempty" json:"price_max,omitempty"`
	Rows     *int     `form:"rows,omitempty" json:"rows,omitempty"`
	Limit    *int     `form:"limit,omitempty" json:"limit,omitempty"`
}

// ClassifyParams are the GET /classify query parameters.
type ClassifyParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// Classification is the keyword classifier output.
type Classification struct {
	Brand      *string         `json:"brand,omitempty"`
	Categories []keyword.Match `json:"categories"`
	Types      []keyword.Match `json:"types"`
}

// ClassifyResponse is the GET /classify answer.
type ClassifyResponse struct {
	Query          string         `json:"query"`
	Classification Classification `json:"classification"`
	CombinedMode   bool           `json:"combined_mode"`
	Boosts         []boost.Term   `json:"boosts"`
	BQ             string         `json:"bq"`
}

// SearchResultItem is one ranked document.
type SearchResultItem struct {
	ID            string              `json:"id"`
	Score         float64             `json:"score"`
	KeywordScore  float64             `json:"keyword_score"`
	SemanticScore float64             `json:"semantic_score"`
	LexicalScore  float64             `json:"lexical_score"`
	Fields        map[string]string   `json:"fields"`
	Lists         map[string][]string `json:"lists,omitempty"`
}

// SearchResponse is the GET /search answer.
type SearchResponse struct {
	ClassifyResponse
	Items          []SearchResultItem `json:"items"`
	Count          int                `json:"count"`
	NumFound       int                `json:"num_found"`
	Fused          bool               `json:"fused"`
	FilterEncoding string             `json:"filter_encoding"`
}

// HealthResponse is the GET /health answer.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func classificationToDTO(c keyword.Classification) Classification {
	out := Classification{Categories: c.Categories(), Types: c.Types()}
	if out.Categories == nil {
		out.Categories = []keyword.Match{}
	}
	if out.Types == nil {
		out.Types = []keyword.Match{}
	}
	if c.HasBrand() {
		b := c.Brand()
		out.Brand = &b
	}
	return out
}

func explanationToDTO(q string, exp searchuc.Explanation) ClassifyResponse {
	boosts := exp.Boosts
	if boosts == nil {
		boosts = []boost.Term{}
	}
	return ClassifyResponse{
		Query:          q,
		Classification: classificationToDTO(exp.Classification),
		CombinedMode:   exp.CombinedMode,
		Boosts:         boosts,
		BQ:             boost.Join(exp.Boosts),
	}
}

func candidateToDTO(c candidate.Candidate) SearchResultItem {
	return SearchResultItem{
		ID:            c.ID(),
		Score:         c.CombinedScore(),
		KeywordScore:  c.KeywordScore(),
		SemanticScore: c.SemanticScore(),
		LexicalScore:  c.LexicalScore(),
		Fields:        c.Fields(),
		Lists:         c.Lists(),
	}
}
