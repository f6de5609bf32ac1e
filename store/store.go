// Package store persists planner/actor episodes and per-method outcome
// counters to Redis. Grounded on planner_evaluator/planner.go's Episode
// type and its Set/Get-by-"episode:<id>" Redis key convention; the
// per-method counters below are a write-only observability layer and
// never feed back into Domain method-declaration order (that reordering
// is the one teacher behavior this project deliberately does not carry
// forward, since it would violate stable, declaration-order method
// search).
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	htn "github.com/fire/gohtn"
)

// Episode is one planning-and-acting run, recorded for audit.
type Episode struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	DomainName string   `json:"domain_name"`
	Todo      string    `json:"todo"`
	Plan      string    `json:"plan"`
	Succeeded bool      `json:"succeeded"`
	Detail    string    `json:"detail"`
}

// Store wraps a Redis client with the episode log and method-outcome
// counters.
type Store struct {
	rdb *redis.Client
}

// New wraps an already-configured Redis client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func episodeKey(id string) string  { return fmt.Sprintf("episode:%s", id) }
func counterKey(method string) string { return fmt.Sprintf("method_outcome:%s", method) }

// SaveEpisode records a finished run, assigning it a fresh ID if e.ID
// is empty, and returns the ID it was stored under.
func (s *Store) SaveEpisode(ctx context.Context, e Episode) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, episodeKey(e.ID), b, 0).Err(); err != nil {
		return "", err
	}
	return e.ID, nil
}

// LoadEpisode fetches a previously saved episode by ID.
func (s *Store) LoadEpisode(ctx context.Context, id string) (*Episode, error) {
	v, err := s.rdb.Get(ctx, episodeKey(id)).Result()
	if err != nil {
		return nil, err
	}
	var e Episode
	if err := json.Unmarshal([]byte(v), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RecordMethodOutcome increments a hit/miss counter for a method name.
// This is diagnostic only: nothing in the planner reads these counters
// back, so they can never influence which method is tried first.
func (s *Store) RecordMethodOutcome(ctx context.Context, methodName string, succeeded bool) error {
	field := "failures"
	if succeeded {
		field = "successes"
	}
	return s.rdb.HIncrBy(ctx, counterKey(methodName), field, 1).Err()
}

// MethodOutcomes returns the raw successes/failures counters for a
// method name, for introspection endpoints and tests.
func (s *Store) MethodOutcomes(ctx context.Context, methodName string) (successes, failures int64, err error) {
	vals, err := s.rdb.HMGet(ctx, counterKey(methodName), "successes", "failures").Result()
	if err != nil {
		return 0, 0, err
	}
	successes = asInt64(vals[0])
	failures = asInt64(vals[1])
	return successes, failures, nil
}

func asInt64(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	var n int64
	fmt.Sscanf(s, "%d", &n)
	return n
}

// EventSink adapts planner/actor events into episode-relevant side
// effects: EventActionApplied/EventActionFailed increment the success/
// failure counter of the action name, EventMethodFailed increments the
// failure counter of the method name, and every other event kind is
// ignored; context cancellation from the caller's HTTP handler is the
// caller's concern, not this sink's.
type EventSink struct {
	store *Store
	ctx   context.Context
}

// NewEventSink builds an htn.EventSink that records method outcomes to
// Redis as the planner/actor runs. ctx bounds every Redis call the sink
// makes; callers typically pass the same context driving FindPlan.
func NewEventSink(ctx context.Context, s *Store) *EventSink {
	return &EventSink{store: s, ctx: ctx}
}

func (s *EventSink) Emit(e htn.Event) {
	switch e.Kind {
	case htn.EventMethodTried:
		// no-op: only terminal outcomes are counted
	case htn.EventActionFailed:
		_ = s.store.RecordMethodOutcome(s.ctx, e.ItemName, false)
	case htn.EventActionApplied:
		_ = s.store.RecordMethodOutcome(s.ctx, e.ItemName, true)
	case htn.EventMethodFailed:
		_ = s.store.RecordMethodOutcome(s.ctx, e.Method, false)
	}
}
