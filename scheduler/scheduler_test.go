// FILE: scheduler_test.go
package scheduler

import (
	"context"
	"testing"
	"time"

	htn "github.com/fire/gohtn"
)

func buildSchedulerTestDomain(t *testing.T) *htn.Domain {
	t.Helper()
	d := htn.NewDomain("rooms")
	move := func(state *htn.State, args []interface{}) (*htn.State, bool) {
		obj, _ := args[0].(string)
		dst, _ := args[1].(string)
		state.Set("loc", obj, dst)
		return state, true
	}
	if err := d.DeclareAction("move", move); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareCommand("c_move", move); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareUnigoalMethod("loc", "m_move", func(s *htn.State, arg, value interface{}) (htn.TodoList, bool) {
		return htn.TodoList{htn.Action("move", arg, value)}, true
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.DeclareMultigoalMethod("m_split_multigoal", htn.SplitMultigoal); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestScheduleRestoresADriftedStandingGoal(t *testing.T) {
	d := buildSchedulerTestDomain(t)
	planner := htn.NewPlanner(d, htn.DefaultConfig(), nil)
	actor := htn.NewActor(planner, 0)
	sched := New(actor)

	state := htn.NewState("s")
	state.Set("loc", "b", "room1")
	goal := htn.NewMultigoal("keep-b-in-room2")
	goal.Set("loc", "b", "room2")

	sg := StandingGoal{Name: "keep-b-in-room2", Goal: goal, State: state}
	if err := sched.Schedule("@every 20ms", sg); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := state.Get("loc", "b"); ok && got == "room2" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected the standing goal to converge within the deadline")
}

func TestUnscheduleStopsFurtherRuns(t *testing.T) {
	d := buildSchedulerTestDomain(t)
	planner := htn.NewPlanner(d, htn.DefaultConfig(), nil)
	actor := htn.NewActor(planner, 0)
	sched := New(actor)

	state := htn.NewState("s")
	state.Set("loc", "b", "room1")
	goal := htn.NewMultigoal("g")
	goal.Set("loc", "b", "room2")

	sg := StandingGoal{Name: "g", Goal: goal, State: state}
	if err := sched.Schedule("@every 10ms", sg); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	sched.Unschedule("g")
	sched.Start()
	defer sched.Stop()

	time.Sleep(100 * time.Millisecond)
	if got, _ := state.Get("loc", "b"); got == "room2" {
		t.Fatalf("expected the unscheduled goal to never run, but it converged")
	}
}

func TestStopCancelsContext(t *testing.T) {
	d := buildSchedulerTestDomain(t)
	planner := htn.NewPlanner(d, htn.DefaultConfig(), nil)
	actor := htn.NewActor(planner, 0)
	sched := New(actor)
	sched.Start()
	sched.Stop()

	select {
	case <-sched.ctx.Done():
	case <-context.Background().Done():
		t.Fatalf("unreachable")
	default:
		t.Fatalf("expected the scheduler's context to be cancelled after Stop")
	}
}
