// Command htnplan is the service entrypoint: it loads configuration,
// connects to Redis and NATS, builds a Domain, and serves the planner
// and actor over HTTP, in the flag-parsing / .env-loading / signal-
// handling style of fsm/server.go's main().
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	htn "github.com/fire/gohtn"
	"github.com/fire/gohtn/apiserver"
	"github.com/fire/gohtn/bus"
	"github.com/fire/gohtn/config"
	"github.com/fire/gohtn/examples/rooms"
	"github.com/fire/gohtn/scheduler"
	"github.com/fire/gohtn/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML configuration file")
		envPath    = flag.String("env", ".env", "path to a .env file (optional)")
		agentID    = flag.String("agent", "", "override the configured agent ID")
		verbose    = flag.Bool("verbose", false, "enable verbose logging")
	)
	flag.Parse()

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.Load(*envPath, *configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *agentID != "" {
		cfg.AgentID = *agentID
	}

	log.Printf("starting htnplan for agent %s (domain=%s, redis=%s, nats=%s)",
		cfg.AgentID, cfg.DomainName, cfg.RedisURL, cfg.NatsURL)

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis URL: %v", err)
	}
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()
	st := store.New(rdb)

	var sink htn.EventSink
	eventBus, err := bus.Connect(bus.Config{URL: cfg.NatsURL, Subject: "htn.events." + cfg.AgentID})
	if err != nil {
		log.Printf("warning: failed to connect to NATS (%v); continuing without event publishing", err)
		sink = store.NewEventSink(context.Background(), st)
	} else {
		defer eventBus.Close()
		sink = bus.NewEventSink(eventBus, cfg.DomainName)
	}

	// Only the "rooms" example domain is wired up today; a real
	// deployment would select among multiple registered domains by
	// cfg.DomainName.
	domain := rooms.NewDomain()

	plannerCfg := &htn.Config{Verbose: cfg.Verbose, VerifyGoals: cfg.VerifyGoals, MaxDepth: cfg.MaxDepth}
	planner := htn.NewPlanner(domain, plannerCfg, sink)
	actor := htn.NewActor(planner, cfg.MaxTries)

	if cfg.StandingGoalEvery != "" {
		sched := scheduler.New(actor)
		sched.Start()
		defer sched.Stop()
		log.Printf("standing-goal scheduler enabled (%s); register StandingGoals via the scheduler package", cfg.StandingGoalEvery)
	}

	srv := apiserver.New(planner, actor)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: srv}

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}
