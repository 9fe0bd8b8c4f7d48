package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vellalasercare/storefront-gateway/config"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/internal/db"
)

const dateLayout = "2006-01-02"

// Exports order submission attempts for a date range to a spreadsheet.
func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: go run cmd/ledger/main.go <from YYYY-MM-DD> <to YYYY-MM-DD> <output.xlsx>")
	}

	from, to, err := parseRange(os.Args[1], os.Args[2])
	if err != nil {
		log.Fatal("Invalid date range:", err)
	}
	outPath := os.Args[3]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	submissionRepo := repository.NewSubmissionRepository(db.GetDB())

	fmt.Printf("Reading submissions from %s to %s\n", from.Format(dateLayout), to.Format(dateLayout))
	submissions, err := submissionRepo.FindCreatedBetween(from, to)
	if err != nil {
		log.Fatal("Failed to read submissions:", err)
	}

	f, err := buildLedger(submissions)
	if err != nil {
		log.Fatal("Failed to build ledger:", err)
	}
	defer f.Close()

	if err := f.SaveAs(outPath); err != nil {
		log.Fatal("Failed to save ledger:", err)
	}

	fmt.Println("Export completed successfully!")
	fmt.Printf("Total submissions exported: %d\n", len(submissions))
}

// parseRange treats to as inclusive: the range ends at the start of the next day.
func parseRange(fromArg, toArg string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromArg)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(dateLayout, toArg)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to %s is before from %s", toArg, fromArg)
	}
	return from, to.AddDate(0, 0, 1), nil
}
