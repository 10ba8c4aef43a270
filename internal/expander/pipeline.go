package expander

import (
	"runtime"
	"sync"

	"dte.casinoexpress.cl/internal/classifier"
	"dte.casinoexpress.cl/internal/normalizer"
	"dte.casinoexpress.cl/internal/sheet"
)

// Pipeline runs the full per-row transform (normalize, classify, extract,
// expand) over a loaded table. Rule sets are explicit values so they can be
// swapped in tests.
type Pipeline struct {
	Rules      normalizer.Rules
	ClassRules []classifier.Rule
	Workers    int
}

// NewPipeline returns a Pipeline with the canonical rule sets and one
// worker per CPU.
func NewPipeline() Pipeline {
	return Pipeline{
		Rules:      normalizer.Default(),
		ClassRules: classifier.DefaultRules(),
		Workers:    runtime.NumCPU(),
	}
}

// Process expands every row of the table. Rows are independent, so they
// are transformed across a bounded pool of workers; results land in a
// per-row slice and are concatenated afterwards, which keeps the output in
// original row order with fan-out emission order within each row.
func (p Pipeline) Process(t *sheet.Table) ([]ExpandedRow, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	perRow := make([][]ExpandedRow, len(t.Rows))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, row := range t.Rows {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, row []string) {
			defer wg.Done()
			defer func() { <-sem }()
			perRow[i] = p.processRow(i, row)
		}(i, row)
	}
	wg.Wait()

	var out []ExpandedRow
	for _, rows := range perRow {
		out = append(out, rows...)
	}
	return out, nil
}

// processRow is the single-row transform. It never fails: unclassifiable
// labels become Otro, unparseable text becomes an empty reference set, and
// both resolve to the one-row zero-match branch of Expand.
func (p Pipeline) processRow(idx int, row []string) []ExpandedRow {
	category := classifier.ClassifyWith(sheet.Cell(row, sheet.TypeColumn), p.ClassRules)
	text := normalizer.Apply(sheet.Cell(row, sheet.DescriptionColumn), p.Rules)
	refs := ExtractRefs(category, text)

	normalized := withDescription(row, text)
	return Expand(idx, normalized, category, refs)
}

// withDescription returns a copy of row with the normalized description in
// place, widened to the full column count if the source row was trimmed.
func withDescription(row []string, text string) []string {
	width := len(row)
	if width < sheet.MinColumns {
		width = sheet.MinColumns
	}
	out := make([]string, width)
	copy(out, row)
	out[sheet.DescriptionColumn] = text
	return out
}
