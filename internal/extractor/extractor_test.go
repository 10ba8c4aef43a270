package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{
			name: "single guide",
			text: "Guíadedespachoelectrónica:4449",
			want: []int{4449},
		},
		{
			name: "multiple guides in text order",
			text: "Guíadedespachoelectrónica:111Guíadedespachoelectrónica:222",
			want: []int{111, 222},
		},
		{
			name: "guide amid other references",
			text: "Ordendecompra:OC-02Guíadedespachoelectrónica:333Facturaelectrónica:12",
			want: []int{333},
		},
		{
			name: "duplicates preserved",
			text: "Guíadedespachoelectrónica:111Guíadedespachoelectrónica:111",
			want: []int{111, 111},
		},
		{
			name: "marker absent",
			text: "Facturaelectrónica:1234Facturaelectrónica:5678",
			want: nil,
		},
		{
			name: "marker without digits",
			text: "Guíadedespachoelectrónica:pendiente",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuideNumbers(tt.text))
		})
	}
}

func TestInvoiceNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{
			name: "single invoice",
			text: "Facturaelectrónica:1234",
			want: []int{1234},
		},
		{
			name: "credit note reference",
			text: "Notadecréditoelectrónica:887",
			want: []int{887},
		},
		{
			name: "exempt invoice reference",
			text: "Facturaelectrónicanoafectaoexenta:5021",
			want: []int{5021},
		},
		{
			// Each marker's matches are collected before the next marker,
			// so results group by phrase rather than text position.
			name: "grouped by phrase not text order",
			text: "Notadecréditoelectrónica:9Facturaelectrónica:1Facturaelectrónica:2",
			want: []int{1, 2, 9},
		},
		{
			name: "exempt marker does not double count as plain invoice",
			text: "Facturaelectrónicanoafectaoexenta:77",
			want: []int{77},
		},
		{
			name: "no markers",
			text: "Guíadedespachoelectrónica:4449",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvoiceNumbers(tt.text))
		})
	}
}

func TestPurchaseOrders(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "canonical two digit code",
			text: "Ordendecompra:OC-02",
			want: []string{"OC-02"},
		},
		{
			name: "long code",
			text: "OC-45678123",
			want: []string{"OC-45678123"},
		},
		{
			name: "multiple codes in text order",
			text: "OC-05algo.OC-12",
			want: []string{"OC-05", "OC-12"},
		},
		{
			name: "single digit is not a code",
			text: "OC-1",
			want: nil,
		},
		{
			name: "nine digits cut at eight",
			text: "OC-123456789",
			want: []string{"OC-12345678"},
		},
		{
			name: "duplicates preserved",
			text: "OC-02yOC-02",
			want: []string{"OC-02", "OC-02"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PurchaseOrders(tt.text))
		})
	}
}
