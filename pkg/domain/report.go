package domain

// RunReport summarises a finished run.
type RunReport struct {
	ID    string `json:"id"`
	Steps int    `json:"steps"`
	// Halted is false when the run stopped at the step limit.
	Halted bool         `json:"halted"`
	State  string       `json:"state"`
	Tapes  []TapeReport `json:"tapes"`
}

// TapeReport is the final content of one tape.
type TapeReport struct {
	// Cells holds every visited cell, leftmost first.
	Cells string `json:"cells"`
	// Offset is the position of the first visited cell.
	Offset   int    `json:"offset"`
	Position int    `json:"position"`
	Contents string `json:"contents"`
}

// TransformEntry is the stored form of a transformation result: the
// generated machine as document text plus what is needed to decode it.
type TransformEntry struct {
	Kind       string            `json:"kind"`
	Document   string            `json:"document"`
	Source     string            `json:"source"`
	Codes      map[string]string `json:"codes"`
	StateCodes map[string]string `json:"state_codes,omitempty"`
	Width      int               `json:"width,omitempty"`
}
