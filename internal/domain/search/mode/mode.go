package mode

// Mode is the ranking strategy.
type Mode string

// Ranking mode constants.
const (
	// Hybrid fuses lexical scores with the semantic service when it is available.
	Hybrid  Mode = "hybrid"
	Keyword Mode = "keyword"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Keyword
}
