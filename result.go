// FILE: result.go
package htn

// Every method/action callable returns its payload alongside an "ok"
// flag rather than relying on a nil-vs-empty-slice convention. This is
// the distinguishable-sentinel spec §7/§9 calls for: a task method
// that legitimately has no subtasks returns (nil, true); one that does
// not apply returns (nil, false). The two can never be confused, which
// is the whole point — the scripting-language bug spec §9 documents
// (an empty list evaluating as falsy) cannot occur here.

// ActionFn applies a primitive action to a state clone and returns the
// resulting state and true on success, or (nil, false) if the action's
// preconditions do not hold. It must never mutate a state it did not
// receive as its own argument.
type ActionFn func(state *State, args []interface{}) (next *State, ok bool)

// CommandFn is the acting-time counterpart of ActionFn, invoked by the
// Actor instead of the Planner. It may fail in ways the action model
// never predicted (the world, not just the model, can misbehave).
type CommandFn func(state *State, args []interface{}) (next *State, ok bool)

// TaskMethodFn refines a compound task into a list of sub-items. A
// nil TodoList with ok=true is a legitimate success meaning "no
// further work needed"; ok=false means this method does not apply.
type TaskMethodFn func(state *State, args []interface{}) (subtasks TodoList, ok bool)

// UnigoalMethodFn refines a single-variable goal into a list of
// sub-items, or reports ok=false if inapplicable.
type UnigoalMethodFn func(state *State, arg, value interface{}) (subgoals TodoList, ok bool)

// MultigoalMethodFn refines a Multigoal into a list of sub-items, or
// reports ok=false if inapplicable.
type MultigoalMethodFn func(state *State, goal *Multigoal) (subitems TodoList, ok bool)
