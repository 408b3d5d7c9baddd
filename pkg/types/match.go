package types

// Match is one translation-memory suggestion for a queried sentence.
type Match struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Context string `json:"context"`
	Quality int    `json:"quality"` // similarity score, 0-100
}
