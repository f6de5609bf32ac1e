// Package scheduler periodically re-verifies and, if necessary,
// replans a standing Multigoal against a live State, using
// robfig/cron/v3 the way hdn/agent_scheduler.go drives its own cron
// jobs (cron.New(cron.WithSeconds()), one cron.EntryID tracked per job
// name, mutex-guarded so schedules can be added or removed while
// running).
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	htn "github.com/fire/gohtn"
)

// StandingGoal binds a name to a Multigoal that should remain
// satisfied over time: on each tick the scheduler checks it against
// state and, if it has drifted, re-plans and re-acts to restore it.
type StandingGoal struct {
	Name  string
	Goal  *htn.Multigoal
	State *htn.State
}

// Scheduler owns a cron instance and drives an Actor's lazy-lookahead
// loop against each registered StandingGoal on its own schedule.
type Scheduler struct {
	cron        *cron.Cron
	actor       *htn.Actor
	runningJobs map[string]cron.EntryID
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// New builds a Scheduler that drives actor's acting loop.
func New(actor *htn.Actor) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		actor:       actor,
		runningJobs: make(map[string]cron.EntryID),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the underlying cron scheduler. Standing goals are
// registered separately via Schedule, before or after Start.
func (s *Scheduler) Start() {
	log.Printf("[scheduler] starting")
	s.cron.Start()
}

// Stop cancels the scheduler's context and stops cron, waiting for any
// in-flight job to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Schedule registers sg to be re-verified on cronExpr (robfig/cron
// syntax, seconds-enabled: "*/30 * * * * *" for every 30s). Scheduling
// the same name again replaces the previous job.
func (s *Scheduler) Schedule(cronExpr string, sg StandingGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.runningJobs[sg.Name]; exists {
		s.cron.Remove(entryID)
		delete(s.runningJobs, sg.Name)
	}

	job := func() {
		unmet := htn.GoalsNotAchieved(sg.State, sg.Goal)
		if len(unmet.VarNames()) == 0 {
			return
		}
		log.Printf("[scheduler] standing goal %q has drifted, replanning", sg.Name)

		ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
		defer cancel()

		final, err := s.actor.RunLazyLookahead(ctx, sg.State, htn.TodoList{htn.MultigoalItem(sg.Goal)})
		if err != nil {
			log.Printf("[scheduler] standing goal %q: acting loop failed: %v", sg.Name, err)
			return
		}
		*sg.State = *final
	}

	entryID, err := s.cron.AddFunc(cronExpr, job)
	if err != nil {
		return err
	}
	s.runningJobs[sg.Name] = entryID
	return nil
}

// Unschedule removes a previously scheduled standing goal by name, if present.
func (s *Scheduler) Unschedule(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, exists := s.runningJobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.runningJobs, name)
	}
}
