// FILE: verify.go
package htn

import (
	"log"
	"reflect"
)

// verifyGoalMethod is the built-in method backing the "_verify_g"
// task (spec §4.3.5). args carry, in order: method name, variable
// name, argument term, desired value. It fails (and traces) if the
// just-applied unigoal method did not actually achieve its goal.
func (d *Domain) verifyGoalMethod(state *State, args []interface{}) (TodoList, bool) {
	methodName, _ := args[0].(string)
	varName, _ := args[1].(string)
	arg := args[2]
	desired := args[3]

	got, ok := state.Get(varName, arg)
	if !ok || !reflect.DeepEqual(got, desired) {
		log.Printf("[htn] verify: method %q for %s(%v) left %v, wanted %v", methodName, varName, arg, got, desired)
		return nil, false
	}
	return TodoList{}, true
}

// verifyMultigoalMethod is the built-in method backing the
// "_verify_mg" task (spec §4.3.5). args carry: method name, the
// Multigoal that was supposedly achieved.
func (d *Domain) verifyMultigoalMethod(state *State, args []interface{}) (TodoList, bool) {
	methodName, _ := args[0].(string)
	goal, _ := args[1].(*Multigoal)

	unmet := GoalsNotAchieved(state, goal)
	if len(unmet.VarNames()) > 0 {
		log.Printf("[htn] verify: method %q for multigoal %q left %d conjuncts unmet", methodName, goal.Name, len(unmet.VarNames()))
		return nil, false
	}
	return TodoList{}, true
}

// SplitMultigoal is the baseline multigoal-refinement method described
// in spec §4.3.7. It is not auto-registered; callers opt in via
// Domain.DeclareMultigoalMethod("m_split_multigoal", htn.SplitMultigoal).
// It emits one Unigoal per unachieved conjunct (in the multigoal's
// insertion order) followed by the multigoal itself, so the planner
// loops until every conjunct holds simultaneously. It is intentionally
// naive: callers wanting heuristic conjunct ordering should supply
// their own multigoal method instead.
func SplitMultigoal(state *State, goal *Multigoal) (TodoList, bool) {
	unmet := GoalsNotAchieved(state, goal)
	names := unmet.VarNames()
	if len(names) == 0 {
		return TodoList{}, true
	}
	items := make(TodoList, 0, len(names)+1)
	for _, varName := range names {
		for _, arg := range unmet.Args(varName) {
			val, _ := unmet.get(varName, arg)
			items = append(items, Unigoal(varName, arg, val))
		}
	}
	items = append(items, MultigoalItem(goal))
	return items, true
}
