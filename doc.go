// FILE: doc.go

// Package htn implements a hybrid hierarchical task network (HTN) and
// hierarchical goal network (HGN) planner, plus a lazy-lookahead
// acting loop that interleaves planning with command execution.
//
// Given an initial State and a TodoList mixing primitive Actions,
// compound Tasks, single-variable Unigoals, and conjunctive
// Multigoals, Planner.FindPlan performs a depth-first search with
// backtracking over a Domain's registered actions and methods and
// returns the first linear Plan of primitive actions that satisfies
// every item in declaration order. Actor.RunLazyLookahead wraps a
// Planner with an execute-and-replan loop driven by the Domain's
// command table, modeling the gap between a predicted action and a
// real-world command that might fail differently.
//
// The package has no dependencies beyond the standard library. The
// sibling packages store, bus, config, apiserver, and scheduler layer
// optional persistence, messaging, configuration, and HTTP/cron
// surfaces on top of it.
package htn
