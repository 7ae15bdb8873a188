// Package query describes one eDismax select against the index.
package query

// Defaults for the query-field, phrase-field and minimum-match parameters.
const (
	DefaultQF   = "title^3 menu_item^4 menu_category^3 content^1 introduction^1.5 store_name^2 tags^1.5"
	DefaultPF   = "title^6 menu_item^8 content^2"
	DefaultMM   = "2<75%"
	DefaultRows = 50
)

// Params are the eDismax parameters of one select call.
type Params struct {
	Query string // q: filter and free-text clause
	QF    string
	PF    string
	BQ    string // space-joined predicate^weight boost terms
	MM    string
	Rows  int
}
