package solr

import (
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
)

// listSeparator joins the values of multi-valued fields into their single-string form.
const listSeparator = ", "

func parseSelect(body []byte, logger *zap.Logger) candidate.Page {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		logger.Warn("index returned a malformed body, treating as no results", zap.Int("bytes", len(body)))
		return candidate.Page{}
	}

	resp := gjson.GetBytes(body, "response")
	if !resp.Exists() {
		return candidate.Page{}
	}

	page := candidate.Page{NumFound: int(resp.Get("numFound").Int())}
	resp.Get("docs").ForEach(func(_, doc gjson.Result) bool {
		page.Candidates = append(page.Candidates, decodeDoc(doc))
		return true
	})
	return page
}

// decodeDoc normalizes a doc whose fields may be scalars or arrays: one-element arrays
// unwrap; longer arrays are joined into the field's text and kept as a list.
func decodeDoc(doc gjson.Result) candidate.Candidate {
	fields := make(map[string]string)
	var lists map[string][]string
	var lexical float64

	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == domain.FieldScore {
			lexical = value.Float()
			return true
		}
		if !value.IsArray() {
			fields[name] = value.String()
			return true
		}

		items := value.Array()
		switch len(items) {
		case 0:
		case 1:
			fields[name] = items[0].String()
		default:
			values := make([]string, len(items))
			for i, it := range items {
				values[i] = it.String()
			}
			if lists == nil {
				lists = make(map[string][]string)
			}
			lists[name] = values
			fields[name] = strings.Join(values, listSeparator)
		}
		return true
	})

	return candidate.New(fields[domain.FieldID], fields, lists, lexical)
}
