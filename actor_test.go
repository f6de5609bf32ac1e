// FILE: actor_test.go
package htn

import (
	"context"
	"testing"
)

// TestRunLazyLookaheadConvergesInOneTry exercises the common path: the
// plan's commands behave exactly as their action models predicted, so
// a single outer iteration suffices.
func TestRunLazyLookaheadConvergesInOneTry(t *testing.T) {
	d := buildRoomsDomain(t)
	if err := d.DeclareCommand("c_move", func(state *State, args []interface{}) (*State, bool) {
		fn := d.actions["move"]
		return fn(state, args)
	}); err != nil {
		t.Fatal(err)
	}

	planner := NewPlanner(d, DefaultConfig(), nil)
	actor := NewActor(planner, 0)

	state := roomsState(map[string]string{"b": "room1"})
	final, err := actor.RunLazyLookahead(context.Background(), state, TodoList{Unigoal("loc", "b", "room2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := final.Get("loc", "b")
	if !ok || got != "room2" {
		t.Fatalf("expected b to end up in room2, got %v (ok=%v)", got, ok)
	}
}

// TestRunLazyLookaheadFallsBackToAction confirms the c_<name>-then-
// <name> command lookup rule: no command is registered for "move", so
// the actor must fall back to invoking the action itself.
func TestRunLazyLookaheadFallsBackToAction(t *testing.T) {
	d := buildRoomsDomain(t)
	planner := NewPlanner(d, DefaultConfig(), nil)
	actor := NewActor(planner, 0)

	state := roomsState(map[string]string{"b": "room1"})
	final, err := actor.RunLazyLookahead(context.Background(), state, TodoList{Action("move", "b", "room2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := final.Get("loc", "b")
	if got != "room2" {
		t.Fatalf("expected fallback to the move action, got %v", got)
	}
}

// TestRunLazyLookaheadReplansOnCommandFailure gives the actor a
// command that fails the first time it is invoked for a given
// object, forcing a replan. Since the second replan attempt finds the
// world state unchanged, it proposes and executes the same plan, which
// this time succeeds because the failing command only misbehaves once.
func TestRunLazyLookaheadReplansOnCommandFailure(t *testing.T) {
	d := NewDomain("rooms")
	if err := d.DeclareAction("move", func(state *State, args []interface{}) (*State, bool) {
		obj, _ := args[0].(string)
		dst, _ := args[1].(string)
		state.Set("loc", obj, dst)
		return state, true
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareUnigoalMethod("loc", "m_move", func(s *State, arg, value interface{}) (TodoList, bool) {
		return TodoList{Action("move", arg, value)}, true
	}); err != nil {
		t.Fatal(err)
	}

	failedOnce := false
	if err := d.DeclareCommand("c_move", func(state *State, args []interface{}) (*State, bool) {
		if !failedOnce {
			failedOnce = true
			return nil, false
		}
		obj, _ := args[0].(string)
		dst, _ := args[1].(string)
		state.Set("loc", obj, dst)
		return state, true
	}); err != nil {
		t.Fatal(err)
	}

	planner := NewPlanner(d, DefaultConfig(), nil)
	actor := NewActor(planner, 5)

	state := roomsState(map[string]string{"b": "room1"})
	final, err := actor.RunLazyLookahead(context.Background(), state, TodoList{Unigoal("loc", "b", "room2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := final.Get("loc", "b")
	if got != "room2" {
		t.Fatalf("expected the replan to eventually succeed, got %v", got)
	}
	if !failedOnce {
		t.Fatalf("expected the command to have been invoked at least once")
	}
}

// TestRunLazyLookaheadGivesUpAfterMaxTries confirms a command that
// always fails exhausts MaxTries and returns without error, leaving
// the goal unmet.
func TestRunLazyLookaheadGivesUpAfterMaxTries(t *testing.T) {
	d := NewDomain("rooms")
	if err := d.DeclareAction("move", func(state *State, args []interface{}) (*State, bool) {
		obj, _ := args[0].(string)
		dst, _ := args[1].(string)
		state.Set("loc", obj, dst)
		return state, true
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareUnigoalMethod("loc", "m_move", func(s *State, arg, value interface{}) (TodoList, bool) {
		return TodoList{Action("move", arg, value)}, true
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareCommand("c_move", func(state *State, args []interface{}) (*State, bool) {
		return nil, false
	}); err != nil {
		t.Fatal(err)
	}

	planner := NewPlanner(d, DefaultConfig(), nil)
	actor := NewActor(planner, 3)

	state := roomsState(map[string]string{"b": "room1"})
	final, err := actor.RunLazyLookahead(context.Background(), state, TodoList{Unigoal("loc", "b", "room2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := final.Get("loc", "b")
	if got != "room1" {
		t.Fatalf("expected the goal to remain unmet after giving up, got %v", got)
	}
}

func TestRunLazyLookaheadNoCommandOrActionIsFatal(t *testing.T) {
	d := NewDomain("rooms")
	if err := d.DeclareAction("move", func(state *State, args []interface{}) (*State, bool) {
		return state, true
	}); err != nil {
		t.Fatal(err)
	}

	planner := NewPlanner(d, DefaultConfig(), nil)
	actor := NewActor(planner, 0)

	// "move" has no command, but it IS an action, so it must fall back
	// successfully; use an unregistered action name instead to trigger
	// the fatal path via Domain.Classify bypass (direct TodoList).
	todo := TodoList{Action("teleport", "b", "room2")}
	_, err := actor.RunLazyLookahead(context.Background(), roomsState(map[string]string{"b": "room1"}), todo)
	if err == nil {
		t.Fatalf("expected a fatal error: teleport is registered nowhere, so FindPlan itself should fail")
	}
}
