package transform_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioD writes c over a and moves right on a four-symbol alphabet.
const scenarioD = `
blank: ' '
start state: q
input: a
table:
  q:
    a: {write: c, R: h}
    b,c: R
  h:
`

// alignedBits returns the cells of a binary tape starting at position 0,
// padded with the blank to a whole number of codes.
func alignedBits(tp *tape.Tape, width int) string {
	cells := tp.Cells()[-tp.Offset():]
	bits := strings.Join(cells, "")
	for len(bits)%width != 0 {
		bits += tp.Blank()
	}
	return bits
}

func TestBinary_ScenarioD(t *testing.T) {
	res, err := transform.Binary(mustParse(t, scenarioD))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{" ": "00", "a": "01", "b": "10", "c": "11"}, res.Codes)
	assert.Equal(t, 2, res.Width)
	assert.Equal(t, "0", res.Spec.Blank)
	assert.Equal(t, []string{"01"}, res.Spec.Input)
	assert.True(t, res.Spec.Table.IsHalting("h"))

	m := machine.FromSpec(res.Spec)
	tp := runToHalt(t, m)[0]
	assert.Equal(t, "h", m.State())
	assert.Equal(t, "11", tp.String()[:2])
	assert.Equal(t, 2, tp.Position(), "the head advances by one whole code")
}

func TestBinary_MatchesDirectRun(t *testing.T) {
	for _, input := range []string{"1011", "111", "0"} {
		t.Run(input, func(t *testing.T) {
			spec := incrementSpec(t, input)
			directMachine := machine.FromSpec(spec)
			direct := runToHalt(t, directMachine)[0]

			res, err := transform.Binary(spec)
			require.NoError(t, err)
			m := machine.FromSpec(res.Spec)
			tp := runToHalt(t, m)[0]

			assert.Equal(t, directMachine.State(), m.State())
			assert.Equal(t, direct.Position()*res.Width, tp.Position())

			// realign on the leftmost visited code
			lead := -tp.Offset()
			require.Zero(t, lead%res.Width)
			got, err := res.Decode(alignedBits(tp, res.Width))
			require.NoError(t, err)
			prefix, err := res.Decode(strings.Join(tp.Cells()[:lead], ""))
			require.NoError(t, err)
			assert.Equal(t, direct.Contents(), strings.Trim(prefix+got, " "))
		})
	}
}

func TestBinaryBlank(t *testing.T) {
	res, err := transform.BinaryBlank(mustParse(t, scenarioD))
	require.NoError(t, err)
	assert.Equal(t, transform.KindBinaryBlank, res.Kind)
	assert.Equal(t, " ", res.Spec.Blank)

	m := machine.FromSpec(res.Spec)
	tp := runToHalt(t, m)[0]
	assert.Equal(t, "h", m.State())
	assert.Equal(t, "11 ", tp.String())
}

func TestBinary_EndMarkerCodedAfterBlank(t *testing.T) {
	doc := `
blank: ' '
start state: s
input: ∂ab
table:
  s:
    ∂,a,b: R
`
	res, err := transform.Binary(mustParse(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "00", res.Codes[" "])
	assert.Equal(t, "01", res.Codes["∂"])
	assert.Equal(t, "10", res.Codes["a"])
}

func TestBinary_TooFewSymbols(t *testing.T) {
	spec := mustParse(t, "blank: '0'\nstart state: a\ntable:\n  a:\n    0: {write: 1, R: a}\n")

	_, err := transform.Binary(spec)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonTransformAlphabet, se.Reason)
}

func TestBinary_SourceListing(t *testing.T) {
	res, err := transform.Binary(mustParse(t, scenarioD))
	require.NoError(t, err)

	lines := strings.Split(res.Source, "\n")
	assert.Equal(t, "# ␣ = 00", lines[0])
	assert.Equal(t, "# c = 11", lines[3])
	assert.Empty(t, lines[4])
	assert.Regexp(t, `(?m)^q +0 -> 0 R q_0$`, res.Source)
	assert.Contains(t, res.Source, "h_Rmove1 1 -> 1 R h\n")
}

func TestBinary_FormatRoundTrip(t *testing.T) {
	res, err := transform.Binary(incrementSpec(t, "101"))
	require.NoError(t, err)

	doc, err := parser.Format(res.Spec)
	require.NoError(t, err)
	again, err := parser.ParseBytes(doc, true)
	require.NoError(t, err)

	assert.Equal(t, res.Spec.Table.States(), again.Table.States())
	assert.Len(t, again.Table.Transitions(), len(res.Spec.Table.Transitions()))
	assert.Equal(t, res.Spec.Input, again.Input)
}

func TestBinary_UnderscoreStatesKeepApart(t *testing.T) {
	// s_R is both an original state and, naively, the prefix of the
	// states that move right into s.
	doc := `
blank: ' '
start state: s_R
input: ab
table:
  s_R:
    a: {R: s}
  s:
    b: {R: h}
  h:
`
	spec := mustParse(t, doc)
	res, err := transform.Binary(spec)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s_R": "s__R"}, res.StateCodes)
	assert.Equal(t, "s__R", res.Spec.StartState)

	m := machine.FromSpec(res.Spec)
	tp := runToHalt(t, m)[0]
	assert.Equal(t, "h", m.State())
	assert.Equal(t, 2*res.Width, tp.Position())

	got, err := res.Decode(alignedBits(tp, res.Width))
	require.NoError(t, err)
	assert.Equal(t, "ab", strings.TrimRight(got, " "))
}

func TestBinary_GeneratedNamesAreUnique(t *testing.T) {
	doc := `
blank: ' '
start state: x
input: aab
table:
  x:
    a: {R: x_R}
    b: {L: x_L}
  x_R:
    a: {write: b, R: x}
    b: {L: x_}
  x_L:
    ' ': {R: done}
  x_:
    a: {R: x}
    b: {R: done}
  done:
`
	spec := mustParse(t, doc)
	res, err := transform.Binary(spec)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"x_R": "x__R", "x_L": "x__L", "x_": "x__"}, res.StateCodes)

	direct := machine.FromSpec(spec)
	runToHalt(t, direct)
	m := machine.FromSpec(res.Spec)
	runToHalt(t, m)
	assert.Equal(t, "x_L", direct.State())
	assert.Equal(t, "x__L", m.State())
}

func TestBinary_NumericStatesRunButCannotBeFormatted(t *testing.T) {
	doc := "blank: ' '\nstart state: 1\ninput: ab\ntable:\n  1:\n    a: {R: 2}\n  2:\n    b: {write: a, R: 3}\n  3:\n"
	res, err := transform.Binary(mustParse(t, doc))
	require.NoError(t, err)

	m := machine.FromSpec(res.Spec)
	tp := runToHalt(t, m)[0]
	assert.Equal(t, "3", m.State())
	got, err := res.Decode(alignedBits(tp, res.Width))
	require.NoError(t, err)
	assert.Equal(t, "aa", strings.TrimRight(got, " "))

	_, err = parser.Format(res.Spec)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, domain.ReasonStateNotWritable, se.Reason)
}
