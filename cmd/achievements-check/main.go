// Command achievements-check re-runs achievement evaluation outside a request,
// for one user or for every user with a stats row. Use it after catalog
// changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"hadithhub/config"
	"hadithhub/database"
	"hadithhub/logger"
	"hadithhub/progress"

	"github.com/google/uuid"
)

func main() {
	userFlag := flag.String("user", "", "user id to re-check")
	all := flag.Bool("all", false, "re-check every user with a stats row")
	flag.Parse()

	if (*userFlag == "") == !*all {
		fmt.Fprintln(os.Stderr, "usage: achievements-check -user <uuid> | -all")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("database unavailable", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := progress.NewEngine(db, log, progress.Options{
		FetchTimeout:      cfg.Progress.FetchTimeout,
		EvaluationTimeout: cfg.Progress.EvaluationTimeout,
	})

	if *userFlag != "" {
		id, err := uuid.Parse(*userFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -user:", err)
			os.Exit(2)
		}
		slugs, err := engine.CheckAchievements(ctx, id)
		if err != nil {
			log.Error("check failed", "user_id", id, "error", err)
			os.Exit(1)
		}
		printGrants(id, slugs)
		return
	}

	granted, err := engine.CheckAll(ctx)
	ids := make([]uuid.UUID, 0, len(granted))
	for id := range granted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		printGrants(id, granted[id])
	}
	fmt.Printf("%d user(s) received new achievements\n", len(ids))

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("interrupted, partial results above")
		} else {
			log.Error("recheck aborted", "error", err)
		}
		os.Exit(1)
	}
}

func printGrants(id uuid.UUID, slugs []string) {
	for _, s := range slugs {
		fmt.Printf("%s\t%s\n", id, s)
	}
}
