package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const increment = `
blank: ' '
start state: right
input: '1011'
table:
  right:
    1,0: R
    ' ': {L: carry}
  carry:
    1: {write: 0, L: carry}
    '0, ': {write: 1, L: done}
  done:
`

func newServer(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	eng := turing.New(turing.WithRegisterer(reg))
	h, err := httpAdapter.NewHandler(eng, httpAdapter.WithGatherer(reg))
	require.NoError(t, err)
	return h, reg
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestValidate(t *testing.T) {
	h, _ := newServer(t)

	w := post(t, h, "/v1/validate", map[string]any{"document": increment})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp httpAdapter.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "right", resp.StartState)
	assert.Equal(t, []string{"right", "carry", "done"}, resp.States)
	assert.Equal(t, []string{"done"}, resp.HaltingStates)
	assert.Equal(t, 1, resp.Tapes)
}

func TestValidate_SpecError(t *testing.T) {
	h, _ := newServer(t)

	doc := "blank: ' '\nstart state: a\ntable:\n  a:\n    x: {R: b}\n"
	w := post(t, h, "/v1/validate", map[string]any{"document": doc})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp httpAdapter.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ReasonUndeclaredState, resp.Reason)
	require.NotNil(t, resp.Details)
	assert.Equal(t, "a", resp.Details.State)
	assert.Equal(t, 5, resp.Details.Line)
}

func TestValidate_SyntaxError(t *testing.T) {
	h, _ := newServer(t)

	w := post(t, h, "/v1/validate", map[string]any{"document": "blank: [\n"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "yaml:")
}

func TestRequestValidation(t *testing.T) {
	h, _ := newServer(t)

	tests := []struct {
		name string
		path string
		body any
		code int
	}{
		{"missing document", "/v1/validate", map[string]any{}, http.StatusBadRequest},
		{"empty document", "/v1/validate", map[string]any{"document": ""}, http.StatusBadRequest},
		{"wrong type", "/v1/run", map[string]any{"document": increment, "max_steps": "ten"}, http.StatusBadRequest},
		{"negative limit", "/v1/run", map[string]any{"document": increment, "max_steps": -1}, http.StatusBadRequest},
		{"limit too large", "/v1/run", map[string]any{"document": increment, "max_steps": httpAdapter.MaxRunSteps + 1}, http.StatusBadRequest},
		{"unknown kind", "/v1/transform/ternary", map[string]any{"document": increment}, http.StatusBadRequest},
		{"unknown route", "/v1/nope", map[string]any{"document": increment}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestRun(t *testing.T) {
	h, _ := newServer(t)

	w := post(t, h, "/v1/run", map[string]any{"document": increment})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rep domain.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.True(t, rep.Halted)
	assert.Equal(t, "done", rep.State)
	assert.Equal(t, 8, rep.Steps)
	require.Len(t, rep.Tapes, 1)
	assert.Equal(t, "1100", rep.Tapes[0].Contents)
}

type stepRecorder struct {
	ports.Engine
	steps []int
}

func (e *stepRecorder) Parse(context.Context, []byte, bool) (*domain.Spec, error) {
	return &domain.Spec{}, nil
}

func (e *stepRecorder) Run(_ context.Context, _ *domain.Spec, maxSteps int) (*domain.RunReport, error) {
	e.steps = append(e.steps, maxSteps)
	return &domain.RunReport{}, nil
}

func TestServerRun_ClampsStepLimit(t *testing.T) {
	eng := &stepRecorder{}
	s := &httpAdapter.Server{Engine: eng, Logger: logging.NewNop()}

	for _, n := range []int{0, 500, httpAdapter.MaxRunSteps, httpAdapter.MaxRunSteps * 100, -3} {
		body, err := json.Marshal(map[string]any{"document": "x", "max_steps": n})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		s.Run(w, httptest.NewRequest(http.MethodPost, "/v1/run", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, []int{0, 500, httpAdapter.MaxRunSteps, httpAdapter.MaxRunSteps, 0}, eng.steps)
}

func TestRun_StepLimit(t *testing.T) {
	h, _ := newServer(t)

	w := post(t, h, "/v1/run", map[string]any{"document": increment, "max_steps": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var rep domain.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.False(t, rep.Halted)
	assert.Equal(t, 3, rep.Steps)
	assert.Equal(t, "right", rep.State)
}

func TestTransform(t *testing.T) {
	h, _ := newServer(t)

	w := post(t, h, "/v1/transform/binary", map[string]any{"document": increment})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp httpAdapter.TransformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "binary", resp.Kind)
	assert.Equal(t, 2, resp.Width)
	assert.Equal(t, "00", resp.Codes[" "])
	assert.True(t, strings.HasPrefix(resp.Source, "# ␣ = 00"))

	spec, err := parser.ParseBytes([]byte(resp.Document), true)
	require.NoError(t, err)
	assert.Equal(t, "0", spec.Blank)
}

func TestTransform_Rejected(t *testing.T) {
	h, _ := newServer(t)

	doc := "blank: ' '\ntapes: 2\nstart state: a\ntable:\n  a:\n"
	w := post(t, h, "/v1/transform/universal", map[string]any{"document": doc, "multi_tape": true})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp httpAdapter.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ReasonTransformTapes, resp.Reason)
}

func TestTransform_UnwritableDocument(t *testing.T) {
	h, _ := newServer(t)

	doc := "blank: ' '\nstart state: 1\ninput: ab\ntable:\n  1:\n    a: {R: 2}\n  2:\n    b: {write: a, R: 3}\n  3:\n"
	w := post(t, h, "/v1/transform/binary", map[string]any{"document": doc})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp httpAdapter.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ReasonStateNotWritable, resp.Reason)
}

func TestOpenAPIAndMetrics(t *testing.T) {
	h, _ := newServer(t)

	_, err := httpAdapter.LoadOpenAPI(t.Context())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/v1/transform/{kind}")

	post(t, h, "/v1/validate", map[string]any{"document": increment})

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_parse_total{result="ok"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/run", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
