package classifier

import "strings"

// Category is the document class derived from the "Tipo Documento" label of
// an I-Construye export row.
type Category string

const (
	CategoryGuide   Category = "Guía"    // dispatch guide
	CategoryNote    Category = "NC/ND"   // credit or debit note
	CategoryInvoice Category = "Factura" // invoice
	CategoryOther   Category = "Otro"
)

// Rule maps a label substring to a category. First matching rule wins.
type Rule struct {
	Substring string
	Category  Category
}

// DefaultRules returns the prioritized classification rules. Guides are
// checked before notes and notes before invoices; the extractor gating in
// the expander depends on this order.
func DefaultRules() []Rule {
	return []Rule{
		{"guía", CategoryGuide},
		{"nota de crédito", CategoryNote},
		{"nota de débito", CategoryNote},
		{"factura", CategoryInvoice},
	}
}

// Classify maps a document-type label to a Category using the default
// rules. Total over any input: non-string and unmatched labels come back
// as CategoryOther.
func Classify(label any) Category {
	return ClassifyWith(label, DefaultRules())
}

// ClassifyWith classifies label against an explicit rule set.
func ClassifyWith(label any, rules []Rule) Category {
	s, ok := label.(string)
	if !ok {
		return CategoryOther
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range rules {
		if strings.Contains(s, r.Substring) {
			return r.Category
		}
	}
	return CategoryOther
}
