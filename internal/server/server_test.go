package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/db47h/smlogic/internal/metrics"
	"github.com/db47h/smlogic/internal/server"
	"github.com/db47h/smlogic/runner"
	"github.com/db47h/smlogic/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t *testing.T
	h http.Handler
}

func newFixture(t *testing.T) *fixture {
	reg := prometheus.NewRegistry()
	r := runner.New(nil, runner.WithMetrics(metrics.New(reg)))
	return &fixture{t: t, h: server.NewHandler(r, store.NewMemory(), reg, nil)}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) json(method, path, body string, code int, v interface{}) {
	f.t.Helper()
	rr := f.do(method, path, body)
	require.Equal(f.t, code, rr.Code, "%s %s: %s", method, path, rr.Body.String())
	if v != nil {
		require.NoError(f.t, json.Unmarshal(rr.Body.Bytes(), v))
	}
}

func TestNodes(t *testing.T) {
	f := newFixture(t)
	var in, and server.NodeView
	f.json("POST", "/nodes", `{"kind": "input-on", "x": 0, "y": 0}`, http.StatusCreated, &in)
	f.json("POST", "/nodes", `{"kind": "and", "x": 200, "y": 0}`, http.StatusCreated, &and)
	assert.True(t, in.State)
	assert.True(t, in.Baseline)
	assert.Equal(t, "and", and.Kind)
	assert.NotEqual(t, in.ID, and.ID)
	f.json("POST", "/nodes", `{"kind": "relay", "x": 0, "y": 0}`, http.StatusBadRequest, nil)
	f.json("POST", "/nodes", `{"kind": `, http.StatusBadRequest, nil)

	var conn map[string]bool
	f.json("POST", "/connections", `{"source": 0, "target": 1}`, http.StatusOK, &conn)
	assert.Equal(t, map[string]bool{"changed": true, "connected": true}, conn)
	f.json("POST", "/connections", `{"source": 0}`, http.StatusBadRequest, nil)

	var st server.Status
	f.json("POST", "/step", "", http.StatusOK, &st)
	assert.Equal(t, uint(1), st.Ticks)
	f.json("GET", "/nodes/1", "", http.StatusOK, &and)
	assert.True(t, and.State)
	assert.Equal(t, []int{0}, toInts(and.Inputs))

	f.json("POST", "/nodes/1/invert", "", http.StatusOK, &and)
	assert.Equal(t, "nand", and.Kind)
	assert.False(t, and.State)
	f.json("POST", "/nodes/1/swap?dir=-1", "", http.StatusOK, &and)
	assert.Equal(t, "xnor", and.Kind)
	f.json("POST", "/nodes/1/swap?dir=up", "", http.StatusBadRequest, nil)
	f.json("POST", "/nodes/0/alternate", "", http.StatusOK, &in)
	assert.False(t, in.Baseline)
	f.json("POST", "/nodes/9/invert", "", http.StatusNotFound, nil)
	f.json("POST", "/nodes/x/invert", "", http.StatusBadRequest, nil)

	f.json("GET", "/nodes/at?x=10&y=-10", "", http.StatusOK, &in)
	assert.Equal(t, "input", in.Kind)
	f.json("GET", "/nodes/at?x=1000&y=0", "", http.StatusNotFound, nil)
	f.json("GET", "/nodes/at?x=a&y=0", "", http.StatusBadRequest, nil)

	rr := f.do("DELETE", "/nodes/0", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	var vs []server.NodeView
	f.json("GET", "/nodes", "", http.StatusOK, &vs)
	require.Len(t, vs, 1)
	assert.Empty(t, vs[0].Inputs)
	f.json("DELETE", "/nodes/0", "", http.StatusNotFound, nil)
}

func toInts(hs interface{}) []int {
	data, _ := json.Marshal(hs)
	var is []int
	json.Unmarshal(data, &is)
	return is
}

func TestTimerView(t *testing.T) {
	f := newFixture(t)
	var tm server.NodeView
	f.json("POST", "/nodes", `{"kind": "timer", "x": 0, "y": 0}`, http.StatusCreated, &tm)
	assert.Len(t, tm.Stages, 10)
	assert.NotNil(t, tm.Inputs)
}

func TestControl(t *testing.T) {
	f := newFixture(t)
	var st server.Status
	f.json("POST", "/step?n=12", "", http.StatusOK, &st)
	assert.Equal(t, uint(12), st.Ticks)
	f.json("POST", "/step?n=0", "", http.StatusBadRequest, nil)
	f.json("POST", "/step?n=ten", "", http.StatusBadRequest, nil)

	f.json("POST", "/run", "", http.StatusOK, &st)
	assert.True(t, st.Running)
	f.json("POST", "/stop", "", http.StatusOK, &st)
	assert.False(t, st.Running)

	f.json("POST", "/run", "", http.StatusOK, &st)
	f.json("POST", "/reset", "", http.StatusOK, &st)
	assert.False(t, st.Running)
	assert.Equal(t, uint(12), st.Ticks)
	f.json("POST", "/reset?full=true", "", http.StatusOK, &st)
	assert.Equal(t, uint(0), st.Ticks)
	f.json("POST", "/reset?full=maybe", "", http.StatusBadRequest, nil)

	for _, p := range []string{"/reload", "/pickup", "/bake"} {
		f.json("POST", p, "", http.StatusOK, &st)
	}
}

func TestCircuit(t *testing.T) {
	f := newFixture(t)
	f.json("PUT", "/circuit", `[{"kind": "and"}]`, http.StatusBadRequest, nil)

	var st server.Status
	body := `[
		{"kind": "input-on", "x": 0, "y": 0, "inputs": []},
		{"kind": "nor", "x": 100, "y": 0, "inputs": [0]}
	]`
	f.json("PUT", "/circuit", body, http.StatusOK, &st)
	assert.Equal(t, 2, st.Nodes)

	var recs []map[string]interface{}
	f.json("GET", "/circuit", "", http.StatusOK, &recs)
	require.Len(t, recs, 2)
	assert.Equal(t, "nor", recs[1]["kind"])
}

func TestPersistence(t *testing.T) {
	f := newFixture(t)
	f.json("POST", "/nodes", `{"kind": "xor", "x": 0, "y": 0}`, http.StatusCreated, nil)
	assert.Equal(t, http.StatusNoContent, f.do("POST", "/save/one", "").Code)

	var names []string
	f.json("GET", "/circuits", "", http.StatusOK, &names)
	assert.Equal(t, []string{"one"}, names)

	f.json("PUT", "/circuit", `[]`, http.StatusOK, nil)
	f.json("POST", "/load/missing", "", http.StatusNotFound, nil)
	var st server.Status
	f.json("POST", "/load/one", "", http.StatusOK, &st)
	assert.Equal(t, 1, st.Nodes)
	f.json("POST", "/save/..", "", http.StatusBadRequest, nil)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.json("POST", "/step?n=3", "", http.StatusOK, nil)
	rr := f.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "smlogic_ticks_total 3")
}
