package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"safecity/backend/internal/config"
	"safecity/backend/internal/dashboard"
	"safecity/backend/internal/storage"
	"safecity/backend/internal/tracking"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  reports [filter]   list reports, optionally filtered by type or case number
  stats              print report counts
  track <case>       show the tracking view of one case
  seed               load the fixture into an empty database`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	// the CLI answers immediately
	cfg.Provider.Latency = new(bool)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	store, svc := openStorage(cfg)

	switch os.Args[1] {
	case "reports":
		filter := ""
		if len(os.Args) > 2 {
			filter = os.Args[2]
		}
		if err := listReports(ctx, store, filter); err != nil {
			log.Fatalf("Error listing reports: %v", err)
		}
	case "stats":
		if err := printStats(ctx, store); err != nil {
			log.Fatalf("Error reading stats: %v", err)
		}
	case "track":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin track <case_number>")
			os.Exit(1)
		}
		if !printTracking(ctx, store, os.Args[2]) {
			os.Exit(1)
		}
	case "seed":
		if svc == nil {
			fmt.Println("seed needs DATABASE_DSN; the in-memory provider is always seeded")
			os.Exit(1)
		}
		seed, err := storage.DefaultSeed()
		if err != nil {
			log.Fatalf("Error loading fixture: %v", err)
		}
		if err := svc.Migrate(); err != nil {
			log.Fatalf("Error migrating: %v", err)
		}
		if err := svc.SeedIfEmpty(ctx, seed); err != nil {
			log.Fatalf("Error seeding: %v", err)
		}
		fmt.Println("Database seeded.")
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

// openStorage connects to postgres when configured (no redis needed for the
// admin CLI) and falls back to the seeded in-memory provider.
func openStorage(cfg config.Config) (storage.Storage, *storage.Service) {
	if !cfg.UsesDatabase() {
		seed, err := storage.DefaultSeed()
		if err != nil {
			log.Fatalf("failed to load fixture: %v", err)
		}
		return storage.NewMemoryStore(cfg.Delays(), seed), nil
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	svc := storage.NewStorageService(db, nil)
	return svc, svc
}

func listReports(ctx context.Context, s storage.Storage, filter string) error {
	reports, err := s.ListReports(ctx)
	if err != nil {
		return err
	}
	for _, r := range dashboard.Filter(reports, filter) {
		officer := "-"
		if r.IsAssigned() {
			officer = *r.AssignedOfficerID
		}
		fmt.Printf("%-14s %-10s %-12s %-7s %-8s %s\n",
			r.CaseNumber, r.Type, r.Status, r.Priority, officer, r.Location.Address)
	}
	return nil
}

func printStats(ctx context.Context, s storage.Storage) error {
	reports, err := s.ListReports(ctx)
	if err != nil {
		return err
	}
	for _, m := range dashboard.Metrics(dashboard.Summarize(reports)) {
		fmt.Printf("%-16s %v\n", m.Label, m.Value)
	}
	return nil
}

func printTracking(ctx context.Context, s storage.Storage, caseNumber string) bool {
	res := tracking.NewTracker(s).Lookup(ctx, caseNumber)
	if res.Outcome != tracking.OutcomeFound {
		fmt.Println(res.Message)
		return false
	}

	fmt.Printf("%s  %s  %s\n", res.Report.CaseNumber, res.Report.Type, res.Report.Status)
	var steps []string
	for _, st := range res.Progress.Steps {
		mark := "[ ]"
		if st.Completed {
			mark = "[x]"
		}
		steps = append(steps, mark+" "+st.Label)
	}
	fmt.Println(strings.Join(steps, "  "))
	fmt.Printf("Progress: %.0f%%\n", res.Progress.Percent)
	fmt.Println(res.Note)
	return true
}
