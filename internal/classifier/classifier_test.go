package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		label any
		want  Category
	}{
		{
			name:  "electronic invoice",
			label: "Factura Electrónica",
			want:  CategoryInvoice,
		},
		{
			name:  "exempt invoice",
			label: "Factura Electrónica No Afecta o Exenta",
			want:  CategoryInvoice,
		},
		{
			name:  "dispatch guide",
			label: "Guía de Despacho Electrónica",
			want:  CategoryGuide,
		},
		{
			name:  "credit note",
			label: "Nota de Crédito Electrónica",
			want:  CategoryNote,
		},
		{
			name:  "debit note",
			label: "Nota de Débito Electrónica",
			want:  CategoryNote,
		},
		{
			name:  "leading and trailing whitespace",
			label: "  factura electrónica  ",
			want:  CategoryInvoice,
		},
		{
			name:  "case insensitive",
			label: "GUÍA DE DESPACHO ELECTRÓNICA",
			want:  CategoryGuide,
		},
		{
			name:  "unknown label",
			label: "Boleta Electrónica",
			want:  CategoryOther,
		},
		{
			name:  "empty string",
			label: "",
			want:  CategoryOther,
		},
		{
			name:  "nil label",
			label: nil,
			want:  CategoryOther,
		},
		{
			name:  "numeric label",
			label: 33,
			want:  CategoryOther,
		},
		{
			name:  "float label",
			label: 52.0,
			want:  CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.label))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// A label matching several rules takes the highest-priority one:
	// guide before note before invoice.
	assert.Equal(t, CategoryGuide, Classify("guía de despacho asociada a factura"))
	assert.Equal(t, CategoryNote, Classify("nota de crédito sobre factura"))
}

func TestClassifyWithCustomRules(t *testing.T) {
	rules := []Rule{{Substring: "boleta", Category: CategoryInvoice}}
	assert.Equal(t, CategoryInvoice, ClassifyWith("Boleta Electrónica", rules))
	assert.Equal(t, CategoryOther, ClassifyWith("Factura Electrónica", rules))
}
