// FILE: actor.go
package htn

import (
	"context"
	"fmt"
)

// DefaultMaxTries is the lazy-lookahead actor's default outer-loop
// bound (spec §4.4).
const DefaultMaxTries = 10

// Actor drives run_lazy_lookahead: it plans, executes the plan action
// by action through the Domain's command table, and replans on
// command failure. It shares the Planner's Domain/Config/Sink so
// planning and acting trace through the same instrumentation.
type Actor struct {
	planner  *Planner
	MaxTries int
}

// NewActor wraps planner with an acting loop. maxTries<=0 uses
// DefaultMaxTries.
func NewActor(planner *Planner, maxTries int) *Actor {
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}
	return &Actor{planner: planner, MaxTries: maxTries}
}

// RunLazyLookahead is spec §4.4: up to MaxTries outer iterations of
// (plan, then execute the plan command-by-command, replanning on the
// first command failure). It returns the final state reached, which
// may or may not satisfy todo if the actor gave up.
func (a *Actor) RunLazyLookahead(ctx context.Context, state *State, todo TodoList) (*State, error) {
	current := state
	domain := a.planner.Domain

	for try := 1; try <= a.MaxTries; try++ {
		plan, ok, err := a.planner.FindPlan(ctx, current, todo)
		if err != nil {
			return current, err
		}
		if !ok {
			a.planner.Sink.Emit(Event{Kind: EventPlanFailed, Detail: "actor: no plan found, giving up"})
			return current, nil
		}
		if len(plan) == 0 {
			return current, nil
		}

		replan := false
		for _, step := range plan {
			if err := ctx.Err(); err != nil {
				return current, err
			}

			fn, name, found := lookupCommand(domain, step.Name)
			if !found {
				return current, domainErr("run_lazy_lookahead", "no command or action registered for %q", step.Name)
			}

			next, succeeded := fn(current.Copy(), step.Args)
			if !succeeded {
				a.planner.Sink.Emit(Event{Kind: EventCommandFailed, ItemName: name, Detail: fmt.Sprintf("args=%v", step.Args)})
				replan = true
				break
			}
			current = next
		}

		if !replan {
			return current, nil
		}
		a.planner.Sink.Emit(Event{Kind: EventReplan, Detail: fmt.Sprintf("try %d/%d", try, a.MaxTries)})
	}

	a.planner.Sink.Emit(Event{Kind: EventPlanFailed, Detail: "actor: gave up after max tries"})
	return current, nil
}

// lookupCommand implements spec §4.4 step 4: prefer commands["c_"+name],
// fall back to actions[name].
func lookupCommand(d *Domain, actionName string) (CommandFn, string, bool) {
	cmdName := "c_" + actionName
	if fn, ok := d.commands[cmdName]; ok {
		return fn, cmdName, true
	}
	if fn, ok := d.actions[actionName]; ok {
		return CommandFn(fn), actionName, true
	}
	return nil, "", false
}
