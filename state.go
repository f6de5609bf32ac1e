// FILE: state.go
package htn

import (
	"fmt"
	"reflect"
	"strings"
)

// argBindings holds the argument/value pairs for one state variable,
// preserving insertion order. m_split_multigoal (spec-required) walks
// a multigoal's unachieved conjuncts in insertion order, so plain Go
// maps (unordered) cannot back this type.
type argBindings struct {
	order []interface{}
	vals  map[interface{}]interface{}
}

func newArgBindings() *argBindings {
	return &argBindings{vals: make(map[interface{}]interface{})}
}

func (b *argBindings) clone() *argBindings {
	nb := &argBindings{
		order: append([]interface{}(nil), b.order...),
		vals:  make(map[interface{}]interface{}, len(b.vals)),
	}
	for k, v := range b.vals {
		nb.vals[k] = v
	}
	return nb
}

func (b *argBindings) set(arg, val interface{}) {
	if _, exists := b.vals[arg]; !exists {
		b.order = append(b.order, arg)
	}
	b.vals[arg] = val
}

func (b *argBindings) get(arg interface{}) (interface{}, bool) {
	v, ok := b.vals[arg]
	return v, ok
}

// VarMap is the shape shared by State and Multigoal: a state-variable
// name maps to a mapping from an opaque argument term to an opaque
// value term. Argument terms are Go map keys and must be comparable
// with == (an unhashable argument such as a slice panics); value terms
// are compared with reflect.DeepEqual. Strings, ints, and tuples
// (arrays/structs) of the same are typical.
// Iteration order (VarNames, and argument order within a variable)
// is insertion order, not map-random order.
type VarMap struct {
	names []string
	vars  map[string]*argBindings
}

// NewVarMap returns an empty, ready-to-use VarMap.
func NewVarMap() VarMap {
	return VarMap{vars: make(map[string]*argBindings)}
}

func (m VarMap) clone() VarMap {
	out := NewVarMap()
	out.names = append([]string(nil), m.names...)
	for name, b := range m.vars {
		out.vars[name] = b.clone()
	}
	return out
}

func (m VarMap) equal(other VarMap) bool {
	if len(m.vars) != len(other.vars) {
		return false
	}
	for name, b := range m.vars {
		ob, ok := other.vars[name]
		if !ok || len(ob.vals) != len(b.vals) {
			return false
		}
		for arg, val := range b.vals {
			ov, ok := ob.get(arg)
			if !ok || !reflect.DeepEqual(val, ov) {
				return false
			}
		}
	}
	return true
}

// VarNames returns the variable names present, in insertion order.
func (m VarMap) VarNames() []string {
	return append([]string(nil), m.names...)
}

// Args returns the argument terms bound under varName, in insertion order.
func (m VarMap) Args(varName string) []interface{} {
	b, ok := m.vars[varName]
	if !ok {
		return nil
	}
	return append([]interface{}(nil), b.order...)
}

func (m VarMap) get(varName string, arg interface{}) (interface{}, bool) {
	b, ok := m.vars[varName]
	if !ok {
		return nil, false
	}
	return b.get(arg)
}

func (m *VarMap) set(varName string, arg, val interface{}) {
	b, ok := m.vars[varName]
	if !ok {
		b = newArgBindings()
		m.vars[varName] = b
		m.names = append(m.names, varName)
	}
	b.set(arg, val)
}

func (m VarMap) render(indent string) string {
	var b strings.Builder
	for _, name := range m.names {
		b.WriteString(fmt.Sprintf("%s%s:\n", indent, name))
		for _, arg := range m.vars[name].order {
			b.WriteString(fmt.Sprintf("%s  %v = %v\n", indent, arg, m.vars[name].vals[arg]))
		}
	}
	return b.String()
}

// State is a named snapshot of world-variable bindings. States are
// value-typed: Copy produces an independent clone so the planner can
// branch and backtrack without corrupting an ancestor frame.
type State struct {
	Name string
	Vars VarMap
}

// NewState creates an empty, named state.
func NewState(name string) *State {
	return &State{Name: name, Vars: NewVarMap()}
}

// Copy returns a deep clone. Methods and actions must never be handed
// anything but a fresh copy.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	return &State{Name: s.Name, Vars: s.Vars.clone()}
}

// Equal reports structural equality over the variable map. Names are
// not compared; two states with different labels but identical
// bindings are equal.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Vars.equal(other.Vars)
}

// Get returns the value bound to vars[varName][arg], if any.
func (s *State) Get(varName string, arg interface{}) (interface{}, bool) {
	return s.Vars.get(varName, arg)
}

// Set binds vars[varName][arg] = val, creating the variable if absent.
func (s *State) Set(varName string, arg, val interface{}) {
	s.Vars.set(varName, arg, val)
}

// VarNames returns the set of state-variable names present, in
// insertion order.
func (s *State) VarNames() []string {
	return s.Vars.VarNames()
}

// String renders the state for trace output gated on verbosity.
func (s *State) String() string {
	return fmt.Sprintf("State(%s):\n%s", s.Name, s.Vars.render("  "))
}

// Multigoal is a conjunctive desired-state fragment: the same shape
// as State, interpreted as "every listed vars[n][a] = v must hold."
// Unlisted variables and arguments are unconstrained.
type Multigoal struct {
	Name string
	Vars VarMap
}

// NewMultigoal creates an empty, named multigoal.
func NewMultigoal(name string) *Multigoal {
	return &Multigoal{Name: name, Vars: NewVarMap()}
}

// Copy returns a deep clone.
func (g *Multigoal) Copy() *Multigoal {
	if g == nil {
		return nil
	}
	return &Multigoal{Name: g.Name, Vars: g.Vars.clone()}
}

// Equal reports structural equality over the variable map.
func (g *Multigoal) Equal(other *Multigoal) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Vars.equal(other.Vars)
}

// Get returns the desired value for vars[varName][arg], if listed.
func (g *Multigoal) Get(varName string, arg interface{}) (interface{}, bool) {
	return g.Vars.get(varName, arg)
}

// Set lists vars[varName][arg] = val as a conjunct.
func (g *Multigoal) Set(varName string, arg, val interface{}) {
	g.Vars.set(varName, arg, val)
}

// VarNames returns the set of constrained state-variable names, in
// insertion order.
func (g *Multigoal) VarNames() []string {
	return g.Vars.VarNames()
}

func (g *Multigoal) String() string {
	return fmt.Sprintf("Multigoal(%s):\n%s", g.Name, g.Vars.render("  "))
}

// GoalsNotAchieved computes the subset of mg's conjuncts that do not
// currently hold in state. It is a pure function: state and mg are
// read-only. The returned VarMap preserves mg's insertion order and
// may be empty.
func GoalsNotAchieved(state *State, mg *Multigoal) VarMap {
	unmet := NewVarMap()
	for _, varName := range mg.VarNames() {
		for _, arg := range mg.Vars.Args(varName) {
			want, _ := mg.Get(varName, arg)
			have, ok := state.Get(varName, arg)
			if !ok || !reflect.DeepEqual(have, want) {
				unmet.set(varName, arg, want)
			}
		}
	}
	return unmet
}
