package domain

// Highlight modes, scan directions and colors accepted in visualization rules.
var (
	VisModes  = []string{"row", "find"}
	VisDirs   = []string{"->", "<-"}
	VisColors = []string{"green", "blue", "red"}
)

// VisRule tells a renderer how to highlight cells of one tape while the
// machine is in a given state.
type VisRule struct {
	Mode  string `json:"mode" mapstructure:"mode"`
	Dir   string `json:"dir" mapstructure:"dir"`
	Color string `json:"color" mapstructure:"color"`
	Chars string `json:"chars" mapstructure:"chars"`
	Skip  int    `json:"skip,omitempty" mapstructure:"skip"`
}

// Vis is the visualization table of a spec. Tapes has one map per tape,
// keyed by state.
type Vis struct {
	Titles map[string]string    `json:"titles"`
	Info   map[string]string    `json:"info"`
	Colors map[string]string    `json:"colors"`
	Tapes  []map[string]VisRule `json:"tapes"`
}

// NewVis creates an empty visualization table for n tapes.
func NewVis(n int) *Vis {
	v := &Vis{
		Titles: make(map[string]string),
		Info:   make(map[string]string),
		Colors: make(map[string]string),
		Tapes:  make([]map[string]VisRule, n),
	}
	for i := range v.Tapes {
		v.Tapes[i] = make(map[string]VisRule)
	}
	return v
}
