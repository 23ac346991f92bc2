package monitor

// RiskLevel is the severity a verdict assigns to an article for one monitor.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskCritical RiskLevel = "critical"
)

// riskLevels is the fixed enumeration the classifier is allowed to emit.
var riskLevels = map[RiskLevel]bool{
	RiskNone:     true,
	RiskLow:      true,
	RiskMedium:   true,
	RiskCritical: true,
}

// Valid reports whether the level is part of the fixed enumeration.
func (r RiskLevel) Valid() bool {
	return riskLevels[r]
}

// Monitor is a watched subject (brand, product, topic).
type Monitor struct {
	// ID is a stable identifier, unique within the store.
	ID string

	// Label is the human-readable subject text, e.g. "Samsung Note 25".
	Label string
}

// ArticleContent is normalized article input.
type ArticleContent struct {
	// Text is the plain-text body, already stripped of markup.
	Text string

	// SourceURL is set when the content was fetched rather than supplied inline.
	SourceURL string
}

// RiskVerdict is one classifier output entry for a single monitor.
type RiskVerdict struct {
	Monitor string    `json:"monitor"`
	Risk    RiskLevel `json:"risk"`

	// Reason is required whenever Risk != none.
	Reason string `json:"reason,omitempty"`

	// Summary briefly describes the relevant article portion, when present.
	Summary string `json:"summary,omitempty"`
}

// IndexState describes how the monitor index came into memory at startup.
type IndexState int

const (
	// IndexLoaded means a persisted index was read from disk.
	IndexLoaded IndexState = iota

	// IndexRebuilt means no usable index was found and a fresh one was created.
	// This is the expected first-run condition, not an error.
	IndexRebuilt
)

func (s IndexState) String() string {
	switch s {
	case IndexLoaded:
		return "loaded"
	case IndexRebuilt:
		return "rebuilt"
	default:
		return "unknown"
	}
}
