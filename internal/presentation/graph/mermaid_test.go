package graph

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const increment = `
blank: ' '
start state: right
table:
  right:
    1,0: R
    ' ': {L: carry}
  carry:
    1: {write: 0, L: carry}
    '0, ': {write: 1, L: done}
  done:
`

func TestGenerateMermaid_Exact(t *testing.T) {
	spec, err := parser.ParseBytes([]byte("blank: ' '\nstart state: a\ntable:\n  a:\n    ' ': {write: x, R: b}\n  b: {}\n"), false)
	require.NoError(t, err)

	want := strings.Join([]string{
		"graph LR",
		`    s0(("a"))`,
		`    s1["b"]`,
		`    s0 -- "␣→x,R" --> s1`,
		"",
	}, "\n")
	if diff := cmp.Diff(want, GenerateMermaid(spec, nil)); diff != "" {
		t.Errorf("GenerateMermaid() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMermaid(t *testing.T) {
	spec, err := parser.ParseBytes([]byte(increment), false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		overlay  *Overlay
		contains []string
		excludes []string
	}{
		{
			name: "shapes and edges",
			contains: []string{
				`s0(("right"))`,
				`s1["carry"]`,
				`s2((("done")))`,
				`s0 -- "1→1,R<br/>0→0,R" --> s0`,
				`s0 -- "␣→␣,L" --> s1`,
				`s1 -- "1→0,L" --> s1`,
				`s1 -- "0→1,L<br/>␣→1,L" --> s2`,
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "overlay",
			overlay: &Overlay{VisitedStates: []string{"right", "carry", "carry", "ghost"}, CurrentState: "carry"},
			contains: []string{
				"classDef visited",
				"class s0 visited;",
				"class s1 current;",
			},
			excludes: []string{"class s1 visited;", "class s2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateMermaid(spec, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph LR\n"))
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestGenerateMermaid_QuotesEscaped(t *testing.T) {
	spec, err := parser.ParseBytes([]byte("blank: ' '\nstart state: a\ntable:\n  a:\n    '\"': {R: b}\n  b:\n"), false)
	require.NoError(t, err)

	got := GenerateMermaid(spec, nil)
	assert.Contains(t, got, `s0 -- "'→',R" --> s1`)
}
