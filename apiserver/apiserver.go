// Package apiserver exposes a planner/actor Domain over HTTP using
// gorilla/mux, in the minimal-REST-API style of cmd/goal-manager/main.go:
// a small router, JSON in/out, http.Error on failure.
package apiserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	htn "github.com/fire/gohtn"
)

// Server wires a Planner and Actor behind a handful of routes:
//
//	GET  /health          liveness
//	GET  /v1/domain       registered action/task/unigoal-var names
//	POST /v1/plan         {"todo": [...]}  -> {"plan": [...], "ok": bool}
//	POST /v1/act          {"todo": [...]}  -> {"final_state": {...}}
type Server struct {
	planner *htn.Planner
	actor   *htn.Actor
	router  *mux.Router
}

// New builds a Server around planner and actor and registers its routes.
func New(planner *htn.Planner, actor *htn.Actor) *Server {
	s := &Server{planner: planner, actor: actor, router: mux.NewRouter()}
	s.routes()
	return s
}

// ServeHTTP satisfies http.Handler by delegating to the internal router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/v1/domain", s.handleDomain).Methods("GET")
	s.router.HandleFunc("/v1/plan", s.handlePlan).Methods("POST")
	s.router.HandleFunc("/v1/act", s.handleAct).Methods("POST")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// domainView is the introspection payload for GET /v1/domain.
type domainView struct {
	Name            string   `json:"name"`
	Actions         []string `json:"actions"`
	Tasks           []string `json:"tasks"`
	UnigoalVars     []string `json:"unigoal_vars"`
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	d := s.planner.Domain
	view := domainView{
		Name:        d.Name,
		Actions:     d.ActionNames(),
		Tasks:       d.TaskNames(),
		UnigoalVars: d.UnigoalVarNames(),
	}
	writeJSON(w, http.StatusOK, view)
}

// todoItemWire is the JSON shape a caller sends for one TodoItem. Only
// Action and Task items are accepted over HTTP; Unigoal/Multigoal
// construction needs typed arg/value terms that don't survive a bare
// JSON round trip cleanly, so those are a Go-API-only concern (spec's
// Classify convenience constructor has the same restriction).
type todoItemWire struct {
	Kind string        `json:"kind"`
	Name string        `json:"name"`
	Args []interface{} `json:"args"`
}

// stateWire is a flat varName -> {arg: value} encoding of a State. Arg
// keys are always strings over the wire, matching the common case of
// object-identifier state variables used by this package's example
// domains; callers needing richer arg terms should drive the planner
// through the Go API directly instead.
type stateWire map[string]map[string]interface{}

func decodeState(w stateWire) *htn.State {
	s := htn.NewState("http")
	for varName, bindings := range w {
		for arg, val := range bindings {
			s.Set(varName, arg, val)
		}
	}
	return s
}

type planRequest struct {
	State stateWire      `json:"state"`
	Todo  []todoItemWire `json:"todo"`
}

func decodeTodo(items []todoItemWire) (htn.TodoList, error) {
	todo := make(htn.TodoList, 0, len(items))
	for _, it := range items {
		switch it.Kind {
		case "action":
			todo = append(todo, htn.Action(it.Name, it.Args...))
		case "task":
			todo = append(todo, htn.Task(it.Name, it.Args...))
		default:
			return nil, fmt.Errorf("unsupported todo item kind %q over HTTP", it.Kind)
		}
	}
	return todo, nil
}

type planResponse struct {
	OK   bool     `json:"ok"`
	Plan []string `json:"plan"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	todo, err := decodeTodo(req.Todo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := decodeState(req.State)
	plan, ok, err := s.planner.FindPlan(r.Context(), state, todo)
	if err != nil {
		log.Printf("[apiserver] /v1/plan: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := planResponse{OK: ok}
	for _, step := range plan {
		resp.Plan = append(resp.Plan, step.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

type actResponse struct {
	Final map[string]interface{} `json:"final_state"`
}

func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	todo, err := decodeTodo(req.Todo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.actor == nil {
		http.Error(w, "this server was started without an acting loop", http.StatusNotImplemented)
		return
	}

	state := decodeState(req.State)
	final, err := s.actor.RunLazyLookahead(r.Context(), state, todo)
	if err != nil {
		log.Printf("[apiserver] /v1/act: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := map[string]interface{}{}
	for _, varName := range final.VarNames() {
		for _, arg := range final.Vars.Args(varName) {
			val, _ := final.Get(varName, arg)
			out[varName+"["+toString(arg)+"]"] = val
		}
	}
	writeJSON(w, http.StatusOK, actResponse{Final: out})
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
