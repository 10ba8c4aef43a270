package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

// Full-annulment threshold: a note within 10 pesos of its invoice is
// treated as cancelling it outright rather than adjusting it.
const annulmentTolerance = 10.0

// ReferenceError is one integrity violation between stored document types.
type ReferenceError struct {
	Folio     int64  `json:"folio"`
	Type      string `json:"tipo"`
	Reference string `json:"referencia"`
	Problem   string `json:"problema"`
}

// NoteMatch pairs a credit/debit note with the invoice it references,
// joined on issuer RUT plus extracted folio.
type NoteMatch struct {
	InvoiceFolio   int64   `json:"folio_factura"`
	IssuerRUT      string  `json:"rut_emisor"`
	InvoiceDate    string  `json:"fecha_factura"`
	InvoiceTotal   float64 `json:"monto_factura"`
	NoteFolio      int64   `json:"folio_nc"`
	NoteDate       string  `json:"fecha_nc"`
	NoteTotal      float64 `json:"monto_nc"`
	Reference      int64   `json:"ref_nc_nd"`
	Difference     float64 `json:"diferencia_monto"`
	Classification string  `json:"clasificacion"`
}

// Validator runs cross-reference checks over the persisted documents.
type Validator struct {
	db *sql.DB
}

func NewValidator(db *sql.DB) *Validator {
	return &Validator{db: db}
}

// Errors returns every integrity violation found: notes referencing a
// folio no invoice of the same issuer has, invoices referencing an unknown
// dispatch guide, and invoices whose purchase order disagrees with the
// referenced guide's.
func (v *Validator) Errors(ctx context.Context) ([]ReferenceError, error) {
	var errs []ReferenceError

	unmatched, err := v.unmatchedNotes(ctx)
	if err != nil {
		return nil, err
	}
	errs = append(errs, unmatched...)

	orphans, err := v.invoicesWithUnknownGuide(ctx)
	if err != nil {
		return nil, err
	}
	errs = append(errs, orphans...)

	mismatches, err := v.purchaseOrderMismatches(ctx)
	if err != nil {
		return nil, err
	}
	errs = append(errs, mismatches...)

	return errs, nil
}

func (v *Validator) unmatchedNotes(ctx context.Context) ([]ReferenceError, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT n.folio, n.tipo_documento, n.ref_nc_nd_extraida
		FROM documentos n
		WHERE n.tipo_documento = 'NC/ND'
		  AND n.ref_nc_nd_extraida IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM documentos f
			WHERE f.tipo_documento = 'Factura'
			  AND f.rut_emisor = n.rut_emisor
			  AND f.folio = n.ref_nc_nd_extraida
		  )
		ORDER BY n.folio`)
	if err != nil {
		return nil, fmt.Errorf("querying unmatched notes: %w", err)
	}
	defer rows.Close()

	var errs []ReferenceError
	for rows.Next() {
		var e ReferenceError
		var ref int64
		if err := rows.Scan(&e.Folio, &e.Type, &ref); err != nil {
			return nil, err
		}
		e.Reference = fmt.Sprintf("%d", ref)
		e.Problem = "NC/ND no coincide con ninguna Factura del mismo RUT"
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

func (v *Validator) invoicesWithUnknownGuide(ctx context.Context) ([]ReferenceError, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT f.folio, f.tipo_documento, f.guia_extraida
		FROM documentos f
		WHERE f.tipo_documento = 'Factura'
		  AND f.guia_extraida IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM documentos g
			WHERE g.tipo_documento = 'Guía'
			  AND g.rut_emisor = f.rut_emisor
			  AND g.folio = f.guia_extraida
		  )
		ORDER BY f.folio`)
	if err != nil {
		return nil, fmt.Errorf("querying invoices with unknown guide: %w", err)
	}
	defer rows.Close()

	var errs []ReferenceError
	for rows.Next() {
		var e ReferenceError
		var guide int64
		if err := rows.Scan(&e.Folio, &e.Type, &guide); err != nil {
			return nil, err
		}
		e.Reference = fmt.Sprintf("%d", guide)
		e.Problem = "Factura referencia una guía inexistente"
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

func (v *Validator) purchaseOrderMismatches(ctx context.Context) ([]ReferenceError, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT f.folio, f.tipo_documento, f.guia_extraida, f.oc_extraida, g.oc_extraida
		FROM documentos f
		JOIN documentos g
		  ON g.tipo_documento = 'Guía'
		 AND g.rut_emisor = f.rut_emisor
		 AND g.folio = f.guia_extraida
		WHERE f.tipo_documento = 'Factura'
		  AND f.oc_extraida <> ''
		  AND g.oc_extraida <> ''
		  AND f.oc_extraida <> g.oc_extraida
		ORDER BY f.folio`)
	if err != nil {
		return nil, fmt.Errorf("querying purchase order mismatches: %w", err)
	}
	defer rows.Close()

	var errs []ReferenceError
	for rows.Next() {
		var e ReferenceError
		var guide int64
		var invoiceOC, guideOC string
		if err := rows.Scan(&e.Folio, &e.Type, &guide, &invoiceOC, &guideOC); err != nil {
			return nil, err
		}
		e.Reference = fmt.Sprintf("%d", guide)
		e.Problem = fmt.Sprintf("OC de la Guía (%s) no coincide con OC de la Factura (%s)", guideOC, invoiceOC)
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// MatchNotes joins every note to its referenced invoice and classifies the
// amount difference: a note covering the invoice total annuls it, anything
// else is a partial adjustment.
func (v *Validator) MatchNotes(ctx context.Context) ([]NoteMatch, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT f.folio, f.rut_emisor, f.fecha_emision, f.monto_total,
		       n.folio, n.fecha_emision, n.monto_total, n.ref_nc_nd_extraida
		FROM documentos n
		JOIN documentos f
		  ON f.tipo_documento = 'Factura'
		 AND f.rut_emisor = n.rut_emisor
		 AND f.folio = n.ref_nc_nd_extraida
		WHERE n.tipo_documento = 'NC/ND'
		  AND n.ref_nc_nd_extraida IS NOT NULL
		ORDER BY f.folio`)
	if err != nil {
		return nil, fmt.Errorf("querying note matches: %w", err)
	}
	defer rows.Close()

	var matches []NoteMatch
	for rows.Next() {
		var m NoteMatch
		err := rows.Scan(&m.InvoiceFolio, &m.IssuerRUT, &m.InvoiceDate, &m.InvoiceTotal,
			&m.NoteFolio, &m.NoteDate, &m.NoteTotal, &m.Reference)
		if err != nil {
			return nil, err
		}
		m.Difference = m.InvoiceTotal - m.NoteTotal
		if math.Abs(m.Difference) < annulmentTolerance {
			m.Classification = "Anula Factura"
		} else {
			m.Classification = "NC Parcial"
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
