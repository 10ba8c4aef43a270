package extractor

import (
	"regexp"
	"strconv"
)

var (
	// Dispatch guide folio after the electronic dispatch guide marker
	// (e.g. 4449 from "Guíadedespachoelectrónica:4449Ordendecompra:OC-02")
	guidePattern = regexp.MustCompile(`Guíadedespachoelectrónica:(\d+)`)

	// Folios referenced by a credit/debit note, one pattern per document
	// phrase. Declaration order is the result order: all matches of a
	// pattern are collected before moving to the next one.
	invoicePatterns = []*regexp.Regexp{
		// e.g. 1234 from "Facturaelectrónica:1234"
		regexp.MustCompile(`Facturaelectrónica:(\d+)`),
		// e.g. 887 from "Notadecréditoelectrónica:887"
		regexp.MustCompile(`Notadecréditoelectrónica:(\d+)`),
		// e.g. 5021 from "Facturaelectrónicanoafectaoexenta:5021"
		regexp.MustCompile(`Facturaelectrónicanoafectaoexenta:(\d+)`),
	}

	// Purchase order code including prefix (e.g. OC-02, OC-45678123)
	ocPattern = regexp.MustCompile(`OC-\d{2,8}`)
)

// GuideNumbers returns every dispatch-guide folio referenced in text, in
// text order. Text must already be normalized (no whitespace, canonical
// marker spelling); unmatched text yields an empty slice.
func GuideNumbers(text string) []int {
	var guides []int
	for _, m := range guidePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		guides = append(guides, n)
	}
	return guides
}

// InvoiceNumbers returns every invoice or credit-note folio referenced in
// text. Matches are grouped by marker phrase, not interleaved by text
// position: all plain invoice folios first, then credit-note folios, then
// exempt invoice folios.
func InvoiceNumbers(text string) []int {
	var folios []int
	for _, p := range invoicePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			folios = append(folios, n)
		}
	}
	return folios
}

// PurchaseOrders returns every OC-NN..N token in text, prefix included, in
// text order.
func PurchaseOrders(text string) []string {
	return ocPattern.FindAllString(text, -1)
}
