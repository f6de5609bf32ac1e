// FILE: dispatch.go
package htn

// Classify is the convenience, head-symbol-lookup constructor spec §9
// allows to be preserved for caller ergonomics: given a name and its
// call arguments, it looks the name up against d's registries and
// returns the correctly tagged TodoItem. It cannot construct a
// Unigoal or Multigoal item (those need a triple or a *Multigoal, not
// a flat arg list) — callers needing those use Unigoal/MultigoalItem
// directly. A name registered in more than one table is a
// declaration-time bug (spec §3 invariant 3) and DeclareAction/
// DeclareTaskMethod already reject it, so Classify only has to pick
// between "action" and "task" here.
func (d *Domain) Classify(name string, args ...interface{}) (TodoItem, error) {
	switch {
	case d.HasAction(name):
		return Action(name, args...), nil
	case d.HasTask(name):
		return Task(name, args...), nil
	default:
		return TodoItem{}, domainErr("Classify", "uninterpretable item: %q is neither an action nor a task", name)
	}
}
