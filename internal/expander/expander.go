package expander

import (
	"dte.casinoexpress.cl/internal/classifier"
	"dte.casinoexpress.cl/internal/extractor"
	"dte.casinoexpress.cl/internal/sheet"
)

// ReferenceSet holds the references extracted from one row's description,
// in first-occurrence order. Duplicates are preserved; deduplication is a
// sink policy, not an extraction concern.
type ReferenceSet struct {
	Guides         []int
	Invoices       []int
	PurchaseOrders []string
}

// ExpandedRow is one output row: a copy of the source columns plus the
// three derived reference fields. Guide and NoteRef are 0 when no
// reference applies (folios are always positive); PurchaseOrder is "".
type ExpandedRow struct {
	Index         int      // source row position, for stable output order
	Columns       []string // source columns with the description normalized
	Category      classifier.Category
	Guide         int
	NoteRef       int
	PurchaseOrder string
}

// ExtractRefs runs the reference extractors gated by category. Extraction
// only happens where the reference is meaningful for the document type:
// guides are referenced by invoices and notes, invoice folios only by
// notes, and purchase orders by everything except Otro. Otro rows always
// get an empty set regardless of the text.
func ExtractRefs(category classifier.Category, text string) ReferenceSet {
	var refs ReferenceSet
	switch category {
	case classifier.CategoryGuide:
		refs.PurchaseOrders = extractor.PurchaseOrders(text)
	case classifier.CategoryInvoice:
		refs.Guides = extractor.GuideNumbers(text)
		refs.PurchaseOrders = extractor.PurchaseOrders(text)
	case classifier.CategoryNote:
		refs.Guides = extractor.GuideNumbers(text)
		refs.Invoices = extractor.InvoiceNumbers(text)
		refs.PurchaseOrders = extractor.PurchaseOrders(text)
	}
	return refs
}

// Expand fans one classified row out into its expanded rows.
//
// The governing reference list depends on the category: purchase orders
// for guides, guide numbers for invoices, invoice folios for notes. One
// row is emitted per entry of the governing list; fields that are singular
// per document (the purchase order behind an invoice, the guide and
// purchase order behind a note) take the first extracted value on every
// emitted row. An empty governing list still emits exactly one row, so
// len(result) == max(1, len(governing)) always holds and no input row is
// silently dropped.
func Expand(index int, row []string, category classifier.Category, refs ReferenceSet) []ExpandedRow {
	base := ExpandedRow{Index: index, Category: category}

	switch category {
	case classifier.CategoryGuide:
		if len(refs.PurchaseOrders) == 0 {
			return []ExpandedRow{emit(base, row)}
		}
		out := make([]ExpandedRow, 0, len(refs.PurchaseOrders))
		for _, oc := range refs.PurchaseOrders {
			e := emit(base, row)
			e.PurchaseOrder = oc
			out = append(out, e)
		}
		return out

	case classifier.CategoryInvoice:
		base.PurchaseOrder = firstString(refs.PurchaseOrders)
		if len(refs.Guides) == 0 {
			return []ExpandedRow{emit(base, row)}
		}
		out := make([]ExpandedRow, 0, len(refs.Guides))
		for _, g := range refs.Guides {
			e := emit(base, row)
			e.Guide = g
			out = append(out, e)
		}
		return out

	case classifier.CategoryNote:
		base.Guide = firstInt(refs.Guides)
		base.PurchaseOrder = firstString(refs.PurchaseOrders)
		if len(refs.Invoices) == 0 {
			return []ExpandedRow{emit(base, row)}
		}
		out := make([]ExpandedRow, 0, len(refs.Invoices))
		for _, folio := range refs.Invoices {
			e := emit(base, row)
			e.NoteRef = folio
			out = append(out, e)
		}
		return out
	}

	return []ExpandedRow{emit(base, row)}
}

// emit clones base with its own copy of the source columns. Every expanded
// row owns its columns so none is affected by another's hand-off.
func emit(base ExpandedRow, row []string) ExpandedRow {
	base.Columns = append([]string(nil), row...)
	return base
}

func firstInt(s []int) int {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

func firstString(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// AppendedValues returns the three derived columns in output order
// (Guía Extraída, Ref NC/ND Extraída, OC Extraída), with integer folios
// kept as integers so downstream joins compare exactly.
func (e ExpandedRow) AppendedValues() []any {
	out := make([]any, 3)
	if e.Guide != 0 {
		out[0] = e.Guide
	} else {
		out[0] = ""
	}
	if e.NoteRef != 0 {
		out[1] = e.NoteRef
	} else {
		out[1] = ""
	}
	out[2] = e.PurchaseOrder
	return out
}

// Description returns the normalized description column of the row.
func (e ExpandedRow) Description() string {
	return sheet.Cell(e.Columns, sheet.DescriptionColumn)
}
