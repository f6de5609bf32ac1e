// FILE: planner.go
package htn

import (
	"context"
	"fmt"
	"reflect"
)

// Planner runs seek_plan against a fixed Domain and Config. It holds
// no mutable search state of its own — every recursive frame carries
// its own state and todo-list — so a single Planner value is safe to
// reuse across unrelated find_plan calls, though never concurrently
// within one call (spec §5: no concurrency between planner invocations).
type Planner struct {
	Domain *Domain
	Config *Config
	Sink   EventSink
}

// NewPlanner builds a Planner over domain with cfg (DefaultConfig()
// if nil) and an optional EventSink (a no-op sink if nil).
func NewPlanner(domain *Domain, cfg *Config, sink EventSink) *Planner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sink == nil {
		sink = noopSink{}
	}
	return &Planner{Domain: domain, Config: cfg, Sink: sink}
}

// Plan is the linear sequence of primitive action invocations produced
// by the planner.
type Plan []TodoItem

func (p Plan) String() string {
	s := "["
	for i, item := range p {
		if i > 0 {
			s += ", "
		}
		s += item.String()
	}
	return s + "]"
}

// FindPlan is the public entry point (spec §4.3: find_plan). It emits
// a top-level trace line at Verbose>=1 and delegates to the recursive
// seek_plan. A nil, false result means no plan exists; a nil error
// with ok=true and an empty Plan means the todo-list was already
// satisfied/complete.
func (p *Planner) FindPlan(ctx context.Context, state *State, todo TodoList) (Plan, bool, error) {
	if p.Config.Verbose >= 1 {
		p.Sink.Emit(Event{Kind: EventMethodTried, Depth: 0, ItemName: "find_plan", Detail: fmt.Sprintf("todo=%v", todo)})
	}
	plan, ok, err := p.seekPlan(ctx, state, todo, Plan{}, 0)
	if err != nil {
		return nil, false, err
	}
	if ok {
		p.Sink.Emit(Event{Kind: EventPlanFound, Detail: plan.String()})
	} else {
		p.Sink.Emit(Event{Kind: EventPlanFailed, Detail: fmt.Sprintf("todo=%v", todo)})
	}
	return plan, ok, nil
}

// seekPlan is the recursive workhorse (spec §4.3). It dispatches on
// the head of todo and returns (plan, true, nil) on success,
// (nil, false, nil) if every alternative at every level was
// exhausted, or (nil, false, err) on a fatal domain error.
func (p *Planner) seekPlan(ctx context.Context, state *State, todo TodoList, plan Plan, depth int) (Plan, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if p.Config.MaxDepth > 0 && depth > p.Config.MaxDepth {
		return nil, false, nil
	}

	if len(todo) == 0 {
		return plan, true, nil
	}

	head := todo[0]
	rest := todo[1:]

	switch head.Kind {
	case KindMultigoal:
		return p.refineMultigoalAndContinue(ctx, state, head, rest, plan, depth)
	case KindAction:
		if p.Domain.HasAction(head.Name) {
			return p.applyActionAndContinue(ctx, state, head, rest, plan, depth)
		}
		return nil, false, domainErr("seek_plan", "unknown action %q", head.Name)
	case KindTask:
		if p.Domain.HasTask(head.Name) {
			return p.refineTaskAndContinue(ctx, state, head, rest, plan, depth)
		}
		return nil, false, domainErr("seek_plan", "unknown task %q", head.Name)
	case KindVerify:
		return p.refineTaskAndContinue(ctx, state, head, rest, plan, depth)
	case KindUnigoal:
		if p.Domain.HasUnigoalVar(head.VarName) {
			return p.refineUnigoalAndContinue(ctx, state, head, rest, plan, depth)
		}
		return nil, false, domainErr("seek_plan", "unknown unigoal variable %q", head.VarName)
	default:
		return nil, false, domainErr("seek_plan", "uninterpretable todo item: %v", head)
	}
}

// applyActionAndContinue is §4.3.1: action application.
func (p *Planner) applyActionAndContinue(ctx context.Context, state *State, item TodoItem, rest TodoList, plan Plan, depth int) (Plan, bool, error) {
	fn := p.Domain.actions[item.Name]
	next, applied := fn(state.Copy(), item.Args)
	if !applied {
		p.Sink.Emit(Event{Kind: EventActionFailed, Depth: depth, ItemName: item.Name})
		return nil, false, nil
	}
	p.Sink.Emit(Event{Kind: EventActionApplied, Depth: depth, ItemName: item.Name})
	return p.seekPlan(ctx, next, rest, append(plan, item), depth+1)
}

// refineTaskAndContinue is §4.3.2: task refinement. An empty subtask
// list is success, not failure — only ok=false skips to the next
// method.
func (p *Planner) refineTaskAndContinue(ctx context.Context, state *State, item TodoItem, rest TodoList, plan Plan, depth int) (Plan, bool, error) {
	methods := p.Domain.taskMethods[item.Name]
	for _, m := range methods {
		p.Sink.Emit(Event{Kind: EventMethodTried, Depth: depth, ItemName: item.Name, Method: m.name})
		subtasks, applicable := m.fn(state.Copy(), item.Args)
		if !applicable {
			p.Sink.Emit(Event{Kind: EventMethodFailed, Depth: depth, ItemName: item.Name, Method: m.name})
			if item.Kind == KindVerify {
				p.Sink.Emit(Event{Kind: EventVerifyFailed, Depth: depth, Detail: fmt.Sprintf("%s(%s)", item.Name, m.name)})
			}
			continue
		}
		continuation := prepend(subtasks, rest)
		result, ok, err := p.seekPlan(ctx, state, continuation, plan, depth+1)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return result, true, nil
		}
	}
	return nil, false, nil
}

// refineUnigoalAndContinue is §4.3.3: unigoal refinement.
func (p *Planner) refineUnigoalAndContinue(ctx context.Context, state *State, item TodoItem, rest TodoList, plan Plan, depth int) (Plan, bool, error) {
	if have, ok := state.Get(item.VarName, item.Arg); ok && equalTerms(have, item.Value) {
		return p.seekPlan(ctx, state, rest, plan, depth+1)
	}

	methods := p.Domain.unigoalMethods[item.VarName]
	for _, m := range methods {
		p.Sink.Emit(Event{Kind: EventMethodTried, Depth: depth, ItemName: item.VarName, Method: m.name})
		subgoals, applicable := m.fn(state.Copy(), item.Arg, item.Value)
		if !applicable {
			p.Sink.Emit(Event{Kind: EventMethodFailed, Depth: depth, ItemName: item.VarName, Method: m.name})
			continue
		}

		continuation := subgoals
		if p.Config.VerifyGoals {
			v := verifyUnigoal(m.name, item.VarName, item.Arg, item.Value, depth)
			continuation = append(append(TodoList{}, subgoals...), v)
		}
		continuation = prepend(continuation, rest)

		result, ok, err := p.seekPlan(ctx, state, continuation, plan, depth+1)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return result, true, nil
		}
	}
	return nil, false, nil
}

// refineMultigoalAndContinue is §4.3.4: multigoal refinement.
func (p *Planner) refineMultigoalAndContinue(ctx context.Context, state *State, item TodoItem, rest TodoList, plan Plan, depth int) (Plan, bool, error) {
	for _, m := range p.Domain.multigoalMethods {
		p.Sink.Emit(Event{Kind: EventMethodTried, Depth: depth, ItemName: item.Goal.Name, Method: m.name})
		subitems, applicable := m.fn(state.Copy(), item.Goal)
		if !applicable {
			p.Sink.Emit(Event{Kind: EventMethodFailed, Depth: depth, ItemName: item.Goal.Name, Method: m.name})
			continue
		}

		continuation := subitems
		if p.Config.VerifyGoals {
			v := verifyMultigoal(m.name, item.Goal, depth)
			continuation = append(append(TodoList{}, subitems...), v)
		}
		continuation = prepend(continuation, rest)

		result, ok, err := p.seekPlan(ctx, state, continuation, plan, depth+1)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return result, true, nil
		}
	}
	return nil, false, nil
}

func equalTerms(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
