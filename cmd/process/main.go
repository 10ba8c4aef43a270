package main

import (
	"context"
	"flag"
	"log"

	"dte.casinoexpress.cl/internal/classifier"
	"dte.casinoexpress.cl/internal/expander"
	"dte.casinoexpress.cl/internal/sheet"
	"dte.casinoexpress.cl/internal/store"
)

func main() {
	inPath := flag.String("in", "", "input DTE export (.xlsx)")
	outPath := flag.String("out", "extraccion_referencias.xlsx", "output workbook path")
	dbPath := flag.String("db", "facturas.db", "SQLite database path")
	workers := flag.Int("workers", 0, "row workers (0 = one per CPU)")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("missing required -in flag")
	}

	table, err := sheet.ReadXLSX(*inPath)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	pipeline := expander.NewPipeline()
	if *workers > 0 {
		pipeline.Workers = *workers
	}

	expanded, err := pipeline.Process(table)
	if err != nil {
		log.Fatalf("Failed to process rows: %v", err)
	}
	log.Printf("Expanded %d rows into %d documents", len(table.Rows), len(expanded))

	if err := sheet.WriteXLSX(*outPath, buildSheets(table, expanded)); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}
	log.Printf("Wrote %s", *outPath)

	// The workbook is already on disk at this point; a sink failure must
	// not discard it.
	if err := saveToStore(*dbPath, table, expanded); err != nil {
		log.Fatalf("Failed to save to database (workbook kept): %v", err)
	}
	log.Printf("Saved %d documents to %s", len(expanded), *dbPath)
}

func saveToStore(dbPath string, table *sheet.Table, expanded []expander.ExpandedRow) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Replace(context.Background(), store.NewDocuments(table, expanded))
}

// buildSheets assembles the output workbook: every expanded row on the
// first sheet, then one sheet per document category, all with the three
// derived columns appended.
func buildSheets(table *sheet.Table, expanded []expander.ExpandedRow) []sheet.Sheet {
	headers := append(append([]string(nil), table.Headers...),
		"Guía Extraída", "Ref NC/ND Extraída", "OC Extraída")

	byName := map[classifier.Category]string{
		classifier.CategoryInvoice: "Facturas",
		classifier.CategoryGuide:   "Guias",
		classifier.CategoryNote:    "NC_ND",
	}
	sheets := []sheet.Sheet{
		{Name: "Procesado", Headers: headers},
		{Name: "Facturas", Headers: headers},
		{Name: "Guias", Headers: headers},
		{Name: "NC_ND", Headers: headers},
	}
	index := make(map[string]int, len(sheets))
	for i, s := range sheets {
		index[s.Name] = i
	}

	for _, e := range expanded {
		row := make([]any, 0, len(headers))
		for i := range table.Headers {
			row = append(row, sheet.Cell(e.Columns, i))
		}
		row = append(row, e.AppendedValues()...)

		sheets[0].Rows = append(sheets[0].Rows, row)
		if name, ok := byName[e.Category]; ok {
			i := index[name]
			sheets[i].Rows = append(sheets[i].Rows, row)
		}
	}
	return sheets
}
