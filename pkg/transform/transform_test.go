package transform_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioA = `
blank: ' '
start state: a
table:
  a:
    ' ': {write: 'x', R: b}
  b: {}
`

const increment = `
blank: ' '
start state: right
input: '%s'
table:
  right:
    1,0: R
    ' ': {L: carry}
  carry:
    1: {write: 0, L: carry}
    '0, ': {write: 1, L: done}
  done:
`

func mustParse(t *testing.T, doc string) *domain.Spec {
	t.Helper()
	spec, err := parser.ParseBytes([]byte(doc), false)
	require.NoError(t, err)
	return spec
}

func incrementSpec(t *testing.T, input string) *domain.Spec {
	return mustParse(t, strings.Replace(increment, "%s", input, 1))
}

// runToHalt runs m and returns its tapes.
func runToHalt(t *testing.T, m *machine.Machine) []*tape.Tape {
	t.Helper()
	res, err := runner.Run(context.Background(), m, runner.WithMaxSteps(5_000_000))
	require.NoError(t, err)
	require.True(t, res.Halted, "machine did not halt, stopped in %s", res.State)

	var out []*tape.Tape
	for _, tp := range m.Tapes() {
		out = append(out, tp.(*tape.Tape))
	}
	return out
}

func TestAssignCodes(t *testing.T) {
	codes := transform.AssignCodes([]string{"a", "b", "c"}, "b", '1')
	assert.Equal(t, map[string]string{"b": "1", "a": "11", "c": "111"}, codes)

	codes = transform.AssignCodes([]string{"x"}, "start", '2')
	assert.Equal(t, map[string]string{"start": "2", "x": "22"}, codes)
}

func TestBinaryCodes(t *testing.T) {
	codes, size := transform.BinaryCodes([]string{" ", "a", "b", "c", "d"})
	assert.Equal(t, 3, size)
	assert.Equal(t, "000", codes[" "])
	assert.Equal(t, "100", codes["d"])
}

func TestSymbolsAndStates(t *testing.T) {
	spec := incrementSpec(t, "10")
	assert.Equal(t, []string{"1", "0", " "}, transform.Symbols(spec))
	assert.Equal(t, []string{"right", "carry", "done"}, transform.States(spec))
}

func TestUniversal_ScenarioC(t *testing.T) {
	spec := mustParse(t, scenarioA)

	direct := runToHalt(t, machine.FromSpec(spec))
	want := strings.Trim(direct[0].Contents(), spec.Blank)
	require.Equal(t, "x", want)

	res, err := transform.Universal(spec, parser.ParseBytes)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Spec.Tapes)
	assert.Equal(t, []string{">1211223", ">2", ">;1;"}, res.Spec.Input)

	m := machine.FromSpec(res.Spec)
	tapes := runToHalt(t, m)
	assert.Equal(t, "done", m.State())

	got, err := res.Decode(tapes[2].String())
	require.NoError(t, err)
	assert.Equal(t, want, strings.Trim(got, spec.Blank))
}

func TestUniversal_BinaryIncrement(t *testing.T) {
	for _, input := range []string{"1011", "111"} {
		t.Run(input, func(t *testing.T) {
			spec := incrementSpec(t, input)
			direct := runToHalt(t, machine.FromSpec(spec))

			res, err := transform.Universal(spec, parser.ParseBytes)
			require.NoError(t, err)
			m := machine.FromSpec(res.Spec)
			tapes := runToHalt(t, m)
			assert.Equal(t, "done", m.State())

			got, err := res.Decode(tapes[2].String())
			require.NoError(t, err)
			assert.Equal(t, direct[0].Contents(), strings.Trim(got, " "))
		})
	}
}

func TestUniversal_HaltMoveCode(t *testing.T) {
	res, err := transform.Universal(incrementSpec(t, "1"), parser.ParseBytes)
	require.NoError(t, err)

	// ' '=1, 0=11, 1=111; right=2, carry=22, done=222
	program := res.Spec.Input[0]
	assert.True(t, strings.HasPrefix(program, ">"))
	assert.Contains(t, program, "11"+"22"+"111"+"222"+"3333", "writing 1 and entering done halts")
	assert.Contains(t, res.Source, "    # ⎵ = 1")
	assert.Contains(t, res.Source, "  - '>2'")
}

func TestUniversal_RejectsMultiTape(t *testing.T) {
	spec, err := parser.ParseBytes([]byte("blank: ' '\ntapes: 2\nstart state: a\ntable: {a: ~}"), true)
	require.NoError(t, err)

	_, err = transform.Universal(spec, parser.ParseBytes)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonTransformTapes, se.Reason)
}

func TestGet(t *testing.T) {
	assert.Equal(t, []string{"binary", "binary-blank", "universal"}, transform.Kinds())

	fn, err := transform.Get(transform.KindUniversal)
	require.NoError(t, err)
	res, err := fn(mustParse(t, scenarioA), parser.ParseBytes)
	require.NoError(t, err)
	assert.Equal(t, transform.KindUniversal, res.Kind)

	_, err = transform.Get("ternary")
	assert.ErrorIs(t, err, domain.ErrUnknownTransform)
}
