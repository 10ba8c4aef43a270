package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"dte.casinoexpress.cl/internal/handler"
	"dte.casinoexpress.cl/internal/store"
)

func main() {
	port := flag.Int("port", 8005, "HTTP server port")
	dbPath := flag.String("db", "facturas.db", "SQLite database path")
	flag.Parse()

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	h := handler.NewHandler(s)

	mux := http.NewServeMux()
	mux.HandleFunc("/documents", h.Documents)
	mux.HandleFunc("/reconcile/errors", h.ReconcileErrors)
	mux.HandleFunc("/reconcile/notes", h.ReconcileNotes)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Starting server on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
