package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"dte.casinoexpress.cl/internal/expander"
	"dte.casinoexpress.cl/internal/sheet"
)

// Document is one expanded row as persisted. Guide and NoteRef are NULL
// when the row carries no such reference; PurchaseOrder is '' — folios are
// stored as integers and OC codes as literal strings so reconciliation
// joins compare exactly.
type Document struct {
	ID            int64
	Index         int64 // source row position in the export
	Type          string
	Folio         int64
	IssuerRUT     string
	IssuerName    string
	IssueDate     string
	Total         float64
	Description   string
	Guide         sql.NullInt64
	NoteRef       sql.NullInt64
	PurchaseOrder string
}

// Store is the sqlite persistence sink for expanded documents.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
-- documentos: expanded DTE rows, one row per (document, reference) pair
CREATE TABLE IF NOT EXISTS documentos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fila INTEGER NOT NULL,
    tipo_documento TEXT NOT NULL,
    folio INTEGER,
    rut_emisor TEXT,
    razon_social TEXT,
    fecha_emision TEXT,
    monto_total REAL,
    descripcion TEXT,
    guia_extraida INTEGER,
    ref_nc_nd_extraida INTEGER,
    oc_extraida TEXT NOT NULL DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documentos_tipo ON documentos(tipo_documento);
CREATE INDEX IF NOT EXISTS idx_documentos_rut_folio ON documentos(rut_emisor, folio);
CREATE INDEX IF NOT EXISTS idx_documentos_guia ON documentos(guia_extraida);
CREATE INDEX IF NOT EXISTS idx_documentos_ref ON documentos(ref_nc_nd_extraida);
`

// Open opens (creating if needed) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for read-only downstream queries.
func (s *Store) DB() *sql.DB { return s.db }

// Replace wipes the documentos table and inserts docs, mirroring the
// whole-file reprocess the pipeline does: each run replaces the previous
// extraction.
func (s *Store) Replace(ctx context.Context, docs []Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documentos"); err != nil {
		return fmt.Errorf("clearing documentos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documentos (fila, tipo_documento, folio, rut_emisor, razon_social,
			fecha_emision, monto_total, descripcion, guia_extraida, ref_nc_nd_extraida, oc_extraida)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		_, err := stmt.ExecContext(ctx, d.Index, d.Type, d.Folio, d.IssuerRUT, d.IssuerName,
			d.IssueDate, d.Total, d.Description, d.Guide, d.NoteRef, d.PurchaseOrder)
		if err != nil {
			return fmt.Errorf("inserting document (fila %d): %w", d.Index, err)
		}
	}

	return tx.Commit()
}

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	Type     string
	Folio    int64
	Guide    int64
	NoteRef  int64
	OC       string // matches as substring
	RUT      string
	DateFrom string
	DateTo   string
}

// List returns stored documents matching f, in source order.
func (s *Store) List(ctx context.Context, f Filter) ([]Document, error) {
	query := `SELECT id, fila, tipo_documento, folio, rut_emisor, razon_social,
		fecha_emision, monto_total, descripcion, guia_extraida, ref_nc_nd_extraida, oc_extraida
		FROM documentos`

	var conds []string
	var args []any
	if f.Type != "" {
		conds = append(conds, "tipo_documento = ?")
		args = append(args, f.Type)
	}
	if f.Folio != 0 {
		conds = append(conds, "folio = ?")
		args = append(args, f.Folio)
	}
	if f.Guide != 0 {
		conds = append(conds, "guia_extraida = ?")
		args = append(args, f.Guide)
	}
	if f.NoteRef != 0 {
		conds = append(conds, "ref_nc_nd_extraida = ?")
		args = append(args, f.NoteRef)
	}
	if f.OC != "" {
		conds = append(conds, "oc_extraida LIKE ?")
		args = append(args, "%"+f.OC+"%")
	}
	if f.RUT != "" {
		conds = append(conds, "rut_emisor = ?")
		args = append(args, f.RUT)
	}
	if f.DateFrom != "" {
		conds = append(conds, "fecha_emision >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "fecha_emision <= ?")
		args = append(args, f.DateTo)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY fila, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(&d.ID, &d.Index, &d.Type, &d.Folio, &d.IssuerRUT, &d.IssuerName,
			&d.IssueDate, &d.Total, &d.Description, &d.Guide, &d.NoteRef, &d.PurchaseOrder)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountDuplicates counts rows that repeat an earlier row's derived
// reference triple.
func (s *Store) CountDuplicates(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documentos d1
		WHERE EXISTS (
			SELECT 1 FROM documentos d2
			WHERE d2.id < d1.id
			AND COALESCE(d2.guia_extraida, 0) = COALESCE(d1.guia_extraida, 0)
			AND COALESCE(d2.ref_nc_nd_extraida, 0) = COALESCE(d1.ref_nc_nd_extraida, 0)
			AND d2.oc_extraida = d1.oc_extraida
		)`).Scan(&n)
	return n, err
}

// DeleteDuplicates removes rows whose derived reference triple repeats an
// earlier row, keeping the earliest entry. Deduplication is a sink policy,
// applied explicitly and offline; the expansion engine itself stores every
// duplicate it produces.
func (s *Store) DeleteDuplicates(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documentos
		WHERE id NOT IN (
			SELECT MIN(id) FROM documentos
			GROUP BY COALESCE(guia_extraida, 0), COALESCE(ref_nc_nd_extraida, 0), oc_extraida
		)`)
	if err != nil {
		return 0, fmt.Errorf("deleting duplicates: %w", err)
	}
	return res.RowsAffected()
}

// NewDocuments maps expanded rows onto Documents using the table's headers
// to locate the named columns (Folio, Rut Emisor, ...).
func NewDocuments(t *sheet.Table, rows []expander.ExpandedRow) []Document {
	folioCol := t.ColumnIndex("Folio")
	rutCol := t.ColumnIndex("Rut Emisor")
	nameCol := t.ColumnIndex("Razón Social Emisor")
	dateCol := t.ColumnIndex("Fecha Emisión")
	totalCol := t.ColumnIndex("Monto Total")

	docs := make([]Document, 0, len(rows))
	for _, e := range rows {
		d := Document{
			Index:         int64(e.Index),
			Type:          string(e.Category),
			Folio:         parseFolio(sheet.Cell(e.Columns, folioCol)),
			IssuerRUT:     strings.TrimSpace(sheet.Cell(e.Columns, rutCol)),
			IssuerName:    strings.TrimSpace(sheet.Cell(e.Columns, nameCol)),
			IssueDate:     strings.TrimSpace(sheet.Cell(e.Columns, dateCol)),
			Total:         parseAmount(sheet.Cell(e.Columns, totalCol)),
			Description:   e.Description(),
			PurchaseOrder: e.PurchaseOrder,
		}
		if e.Guide != 0 {
			d.Guide = sql.NullInt64{Int64: int64(e.Guide), Valid: true}
		}
		if e.NoteRef != 0 {
			d.NoteRef = sql.NullInt64{Int64: int64(e.NoteRef), Valid: true}
		}
		docs = append(docs, d)
	}
	return docs
}

// parseFolio reads a folio cell as an integer. Exports sometimes carry
// folios as floats ("4449.0"), so it goes through float first.
func parseFolio(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
