// FILE: apiserver_test.go
package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	htn "github.com/fire/gohtn"
	"github.com/fire/gohtn/examples/rooms"
)

func newTestServer() *Server {
	d := rooms.NewDomain()
	planner := htn.NewPlanner(d, htn.DefaultConfig(), nil)
	actor := htn.NewActor(planner, 0)
	return New(planner, actor)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDomainEndpointListsRegisteredNames(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/domain", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view domainView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Name != "rooms" {
		t.Fatalf("expected domain name 'rooms', got %q", view.Name)
	}
	found := false
	for _, a := range view.Actions {
		if a == "move" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'move' among actions, got %v", view.Actions)
	}
}

func TestPlanEndpointReturnsAPlan(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(planRequest{
		State: stateWire{"loc": {"b": "room1"}},
		Todo:  []todoItemWire{{Kind: "action", Name: "move", Args: []interface{}{"b", "room2"}}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || len(resp.Plan) != 1 {
		t.Fatalf("expected a one-step plan, got %+v", resp)
	}
}

func TestPlanEndpointRejectsUnsupportedKind(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(planRequest{
		Todo: []todoItemWire{{Kind: "multigoal", Name: "g"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unsupported kind, got %d", rec.Code)
	}
}

func TestActEndpointRunsTheActingLoop(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(planRequest{
		State: stateWire{"loc": {"b": "room1"}},
		Todo:  []todoItemWire{{Kind: "action", Name: "move", Args: []interface{}{"b", "room2"}}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/act", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
