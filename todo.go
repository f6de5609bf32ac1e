// FILE: todo.go
package htn

import "fmt"

// ItemKind tags the variant of a TodoItem.
type ItemKind int

const (
	// KindAction identifies a primitive action call, name registered
	// in Domain.actions.
	KindAction ItemKind = iota
	// KindTask identifies a compound task call, name registered in
	// Domain.task_methods.
	KindTask
	// KindUnigoal identifies a single-variable goal (var, arg, value).
	KindUnigoal
	// KindMultigoal identifies a whole conjunctive Multigoal payload.
	KindMultigoal
	// KindVerify identifies a planner-injected verification task.
	// Callers never construct this kind directly.
	KindVerify
)

func (k ItemKind) String() string {
	switch k {
	case KindAction:
		return "Action"
	case KindTask:
		return "Task"
	case KindUnigoal:
		return "Unigoal"
	case KindMultigoal:
		return "Multigoal"
	case KindVerify:
		return "Verify"
	default:
		return "Unknown"
	}
}

// TodoItem is the uniform, tagged-sum element of a todo-list: an
// Action, a Task, a Unigoal, a Multigoal, or an internal Verify node.
// Exactly one of the payload fields is meaningful, selected by Kind.
type TodoItem struct {
	Kind ItemKind

	// Action / Task
	Name string
	Args []interface{}

	// Unigoal
	VarName string
	Arg     interface{}
	Value   interface{}

	// Multigoal
	Goal *Multigoal

	// Verify (planner-internal)
	VerifyMethodName string
	VerifyDepth      int
}

// Action constructs a primitive-action todo item.
func Action(name string, args ...interface{}) TodoItem {
	return TodoItem{Kind: KindAction, Name: name, Args: args}
}

// Task constructs a compound-task todo item.
func Task(name string, args ...interface{}) TodoItem {
	return TodoItem{Kind: KindTask, Name: name, Args: args}
}

// Unigoal constructs a single-variable goal todo item: the assertion
// that state.Vars[varName][arg] should equal value.
func Unigoal(varName string, arg, value interface{}) TodoItem {
	return TodoItem{Kind: KindUnigoal, VarName: varName, Arg: arg, Value: value}
}

// MultigoalItem wraps a whole Multigoal as a todo item.
func MultigoalItem(g *Multigoal) TodoItem {
	return TodoItem{Kind: KindMultigoal, Goal: g}
}

func verifyUnigoal(methodName, varName string, arg, value interface{}, depth int) TodoItem {
	return TodoItem{
		Kind:             KindVerify,
		Name:             verifyGoalTaskName,
		VerifyMethodName: methodName,
		VarName:          varName,
		Arg:              arg,
		Value:            value,
		VerifyDepth:      depth,
		Args:             []interface{}{methodName, varName, arg, value, depth},
	}
}

func verifyMultigoal(methodName string, g *Multigoal, depth int) TodoItem {
	return TodoItem{
		Kind:             KindVerify,
		Name:             verifyMultigoalTaskName,
		VerifyMethodName: methodName,
		Goal:             g,
		VerifyDepth:      depth,
		Args:             []interface{}{methodName, g, depth},
	}
}

func (i TodoItem) String() string {
	switch i.Kind {
	case KindAction, KindTask:
		return fmt.Sprintf("%s%v", i.Name, i.Args)
	case KindUnigoal:
		return fmt.Sprintf("Unigoal(%s, %v, %v)", i.VarName, i.Arg, i.Value)
	case KindMultigoal:
		if i.Goal == nil {
			return "Multigoal(nil)"
		}
		return fmt.Sprintf("Multigoal(%s)", i.Goal.Name)
	case KindVerify:
		return fmt.Sprintf("Verify(%s, %s)", i.Name, i.VerifyMethodName)
	default:
		return "TodoItem(?)"
	}
}

// TodoList is a plain agenda of TodoItems. It is ephemeral: it only
// exists on the current search path and is never shared between
// sibling branches.
type TodoList []TodoItem

func (t TodoList) clone() TodoList {
	return append(TodoList(nil), t...)
}

func prepend(items TodoList, rest TodoList) TodoList {
	out := make(TodoList, 0, len(items)+len(rest))
	out = append(out, items...)
	out = append(out, rest...)
	return out
}
