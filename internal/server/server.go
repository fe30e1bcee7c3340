// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package server exposes a hosted circuit over HTTP.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/runner"
	"github.com/db47h/smlogic/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxSteps caps the tick count of a single step request.
const maxSteps = 1 << 20

var (
	errNoNode     = errors.New("no such node")
	errBadRequest = errors.New("bad request")
)

// NodeView is the JSON form of a node.
type NodeView struct {
	ID          smlogic.Handle   `json:"id"`
	Kind        string           `json:"kind"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	State       bool             `json:"state"`
	Prev        bool             `json:"prev"`
	Baseline    bool             `json:"baseline"`
	Stages      []bool           `json:"stages,omitempty"`
	Inputs      []smlogic.Handle `json:"inputs"`
	Description string           `json:"description,omitempty"`
}

func viewOf(n *smlogic.Node) NodeView {
	p := n.Position()
	v := NodeView{
		ID:          n.ID(),
		Kind:        n.Tag(),
		X:           p.X,
		Y:           p.Y,
		State:       n.State(),
		Prev:        n.PrevState(),
		Baseline:    n.Baseline(),
		Inputs:      append([]smlogic.Handle{}, n.Inputs()...),
		Description: n.Description(),
	}
	if n.Kind() == smlogic.KindTimer {
		st := n.Stages()
		v.Stages = st[:]
	}
	return v
}

// Status reports the simulation status.
type Status struct {
	Ticks   uint `json:"ticks"`
	Running bool `json:"running"`
	Nodes   int  `json:"nodes"`
}

// Server serves a runner.
type Server struct {
	Runner *runner.Runner
	Store  store.Store
	Logger *slog.Logger
}

// NewHandler returns the HTTP handler for r. Save and load requests go
// through s, which may be nil to disable them. GET /metrics serves g when
// not nil.
//
func NewHandler(r *runner.Runner, s store.Store, g prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{Runner: r, Store: s, Logger: logger}
	m := chi.NewRouter()
	m.Use(middleware.Recoverer)

	m.Get("/status", srv.status)
	m.Get("/circuit", srv.getCircuit)
	m.Put("/circuit", srv.putCircuit)

	m.Route("/nodes", func(m chi.Router) {
		m.Get("/", srv.listNodes)
		m.Post("/", srv.createNode)
		m.Get("/at", srv.nodeAt)
		m.Route("/{id}", func(m chi.Router) {
			m.Get("/", srv.getNode)
			m.Delete("/", srv.deleteNode)
			m.Post("/alternate", srv.gesture(func(c *smlogic.Circuit, h smlogic.Handle, _ *http.Request) error {
				c.Alternate(h)
				return nil
			}))
			m.Post("/swap", srv.gesture(func(c *smlogic.Circuit, h smlogic.Handle, r *http.Request) error {
				dir, err := intParam(r, "dir", 1)
				if err != nil {
					return err
				}
				c.Swap(h, dir)
				return nil
			}))
			m.Post("/invert", srv.gesture(func(c *smlogic.Circuit, h smlogic.Handle, _ *http.Request) error {
				c.Invert(h)
				return nil
			}))
			m.Post("/bake", srv.gesture(func(c *smlogic.Circuit, h smlogic.Handle, _ *http.Request) error {
				c.BakeNode(h)
				return nil
			}))
		})
	})

	m.Post("/connections", srv.connect)
	m.Post("/step", srv.step)
	m.Post("/run", srv.control(func() { r.Start() }))
	m.Post("/stop", srv.control(func() { r.Stop() }))
	m.Post("/reset", srv.reset)
	m.Post("/reload", srv.lifecycle((*smlogic.Circuit).Reload))
	m.Post("/pickup", srv.lifecycle((*smlogic.Circuit).PickUp))
	m.Post("/bake", srv.lifecycle((*smlogic.Circuit).Bake))

	if s != nil {
		m.Get("/circuits", srv.list)
		m.Post("/save/{name}", srv.save)
		m.Post("/load/{name}", srv.load)
	}
	if g != nil {
		m.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}
	return m
}

func statusOf(err error) int {
	switch errors.Cause(err) {
	case errBadRequest, smlogic.ErrMalformed, store.ErrInvalidName:
		return http.StatusBadRequest
	case errNoNode, store.ErrNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.reply(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("encode response", "error", err)
	}
}

func intParam(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s: %q is not an integer", key, v)
	}
	return i, nil
}

func floatParam(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s: %q is not a number", key, v)
	}
	return f, nil
}

func handleOf(r *http.Request) (smlogic.Handle, error) {
	v := chi.URLParam(r, "id")
	i, err := strconv.Atoi(v)
	if err != nil {
		return smlogic.NoHandle, errors.Wrapf(errBadRequest, "node id %q", v)
	}
	return smlogic.Handle(i), nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "invalid request body: %v", err)
	}
	return nil
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	var st Status
	s.Runner.Do(func(c *smlogic.Circuit) {
		st = Status{Ticks: c.Ticks(), Running: c.Running(), Nodes: c.Len()}
	})
	s.reply(w, http.StatusOK, st)
}

func (s *Server) getCircuit(w http.ResponseWriter, r *http.Request) {
	var (
		data []byte
		err  error
	)
	s.Runner.Do(func(c *smlogic.Circuit) { data, err = c.Serialize() })
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) putCircuit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, r, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	c, err := smlogic.Deserialize(data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Runner.Replace(c)
	s.status(w, r)
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	var vs []NodeView
	s.Runner.Do(func(c *smlogic.Circuit) {
		vs = make([]NodeView, 0, c.Len())
		for _, n := range c.Nodes() {
			vs = append(vs, viewOf(n))
		}
	})
	s.reply(w, http.StatusOK, vs)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string  `json:"kind"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	var (
		v   NodeView
		err error
	)
	s.Runner.Do(func(c *smlogic.Circuit) {
		var h smlogic.Handle
		if h, err = c.Create(req.Kind, smlogic.Point{X: req.X, Y: req.Y}); err == nil {
			v = viewOf(c.Node(h))
		}
	})
	if err != nil {
		s.fail(w, r, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	s.reply(w, http.StatusCreated, v)
}

// withNode calls fn on the node addressed by the request, with the circuit
// locked.
func (s *Server) withNode(r *http.Request, fn func(c *smlogic.Circuit, h smlogic.Handle) error) error {
	h, err := handleOf(r)
	if err != nil {
		return err
	}
	s.Runner.Do(func(c *smlogic.Circuit) {
		if c.Node(h) == nil {
			err = errors.Wrapf(errNoNode, "node %d", h)
			return
		}
		err = fn(c, h)
	})
	return err
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	var v NodeView
	err := s.withNode(r, func(c *smlogic.Circuit, h smlogic.Handle) error {
		v = viewOf(c.Node(h))
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, v)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	err := s.withNode(r, func(c *smlogic.Circuit, h smlogic.Handle) error {
		c.Remove(h)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) nodeAt(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var v NodeView
	s.Runner.Do(func(c *smlogic.Circuit) {
		h, ok := c.NodeAt(smlogic.Point{X: x, Y: y})
		if !ok {
			err = errors.Wrapf(errNoNode, "at %g, %g", x, y)
			return
		}
		v = viewOf(c.Node(h))
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, v)
}

// gesture returns a handler applying fn to a node and replying with the
// node's new view.
func (s *Server) gesture(fn func(c *smlogic.Circuit, h smlogic.Handle, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v NodeView
		err := s.withNode(r, func(c *smlogic.Circuit, h smlogic.Handle) error {
			if err := fn(c, h, r); err != nil {
				return err
			}
			v = viewOf(c.Node(h))
			return nil
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.reply(w, http.StatusOK, v)
	}
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source *smlogic.Handle `json:"source"`
		Target *smlogic.Handle `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Source == nil || req.Target == nil {
		s.fail(w, r, errors.Wrap(errBadRequest, "source and target are required"))
		return
	}
	var ok, connected bool
	s.Runner.Do(func(c *smlogic.Circuit) {
		ok = c.Connect(*req.Source, *req.Target)
		connected = c.Connected(*req.Source, *req.Target)
	})
	s.reply(w, http.StatusOK, map[string]bool{"changed": ok, "connected": connected})
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 1)
	if err == nil && (n < 1 || n > maxSteps) {
		err = errors.Wrapf(errBadRequest, "n: %d out of range", n)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Runner.Step(n)
	s.status(w, r)
}

func (s *Server) control(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		s.status(w, r)
	}
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	full, err := strconv.ParseBool(r.URL.Query().Get("full"))
	if err != nil && r.URL.Query().Get("full") != "" {
		s.fail(w, r, errors.Wrapf(errBadRequest, "full: %v", err))
		return
	}
	s.Runner.Reset(full)
	s.status(w, r)
}

func (s *Server) lifecycle(fn func(c *smlogic.Circuit)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Runner.Do(fn)
		s.status(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.reply(w, http.StatusOK, names)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if err := s.Runner.Save(r.Context(), s.Store, chi.URLParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) {
	if err := s.Runner.Load(r.Context(), s.Store, chi.URLParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.status(w, r)
}
