package normalizer

import "strings"

// Rule is a single literal search/replace pair.
type Rule struct {
	Find    string
	Replace string
}

// Rules is an ordered replacement chain. Order matters: a later rule may
// act on the output of an earlier one (e.g. space stripping must run before
// the "Ordendecompra:" variants can match).
type Rules []Rule

// Default returns the canonical rule chain for I-Construye description
// text. It strips all whitespace and collapses the known misspellings of
// the purchase-order marker into the OC-NN form.
func Default() Rules {
	return Rules{
		{" ", ""},
		{"OC:OC:", "OC"},
		{"Nª", ""},
		{"Ordendecompra:OC-3", "Ordendecompra:OC-03"},
		{"Ordendecompra:OC03", "Ordendecompra:OC-03"},
		{"Ordendecompra:OC3", "Ordendecompra:OC-03"},
		{"Ordendecompra:03", "Ordendecompra:OC-03"},
		{"Ordendecompra:3", "Ordendecompra:OC-03"},
		{"Ordendecompra:oc", "Ordendecompra:OC"},
		{"Ordendecompra:OC-2", "Ordendecompra:OC-02"},
		{"Ordendecompra:OC02", "Ordendecompra:OC-02"},
		{"Ordendecompra:OC2", "Ordendecompra:OC-02"},
		{"Ordendecompra:02", "Ordendecompra:OC-02"},
		{"Ordendecompra:2", "Ordendecompra:OC-02"},
		{"Ordendecompra:0C", "Ordendecompra:OC"},
	}
}

// Apply runs every rule over text in declaration order. Rules whose Find
// string is absent are no-ops. The extractors assume their input has been
// through Apply with the Default rules.
func Apply(text string, rules Rules) string {
	for _, r := range rules {
		if strings.Contains(text, r.Find) {
			text = strings.ReplaceAll(text, r.Find, r.Replace)
		}
	}
	return text
}
