package types

// Verdict values of a Result.
const (
	VerdictRefuted    = "refuted"
	VerdictNotRefuted = "not-refuted"
	VerdictProved     = "proved"
	VerdictNotProved  = "not-proved"
)

// Result represents the outcome of one problem in a problem file.
type Result struct {
	Filename string `json:"filename"`
	Problem  string `json:"problem"`
	Goal     string `json:"goal,omitempty"`
	Verdict  string `json:"verdict"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
	Expect   string `json:"expect,omitempty"`
	Mismatch bool   `json:"mismatch,omitempty"`

	// Certificate renders the weighted sum, e.g. "1*h1 + 1*h2 : 0 < 0".
	Certificate string `json:"certificate,omitempty"`
	// Weights maps a hypothesis label to its rational multiplier.
	Weights map[string]string `json:"weights,omitempty"`
	Dropped []string          `json:"dropped,omitempty"`
	Rounds  int               `json:"rounds"`
}

// Success reports whether the problem was refuted or its goal proved.
func (r Result) Success() bool {
	return r.Verdict == VerdictRefuted || r.Verdict == VerdictProved
}
