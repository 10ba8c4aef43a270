package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"dte.casinoexpress.cl/internal/store"
)

// Offline duplicate cleanup of the documents table. The pipeline stores
// every expansion it produces, duplicates included; collapsing rows whose
// derived reference triple repeats is an explicit maintenance step.
func main() {
	dbPath := flag.String("db", "facturas.db", "SQLite database path")
	dryRun := flag.Bool("dry-run", false, "count duplicates without deleting")
	flag.Parse()

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()

	dupes, err := s.CountDuplicates(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Duplicates found: %d\n", dupes)

	if *dryRun {
		return
	}

	deleted, err := s.DeleteDuplicates(ctx)
	if err != nil {
		log.Fatal("Error deleting duplicates:", err)
	}
	fmt.Printf("Deleted %d duplicate documents\n", deleted)
}
