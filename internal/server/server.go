// Package server exposes a store over http.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/FAU-CDI/ntparse/internal/exporter"
	"github.com/FAU-CDI/ntparse/internal/stats"
	"github.com/FAU-CDI/ntparse/internal/store"
	"github.com/FAU-CDI/ntparse/pkg/imap"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/gorilla/mux"
)

// cspell:words nquads

// Server implements an [http.Handler] that parses N-Triples into a store and serves its content.
//
// Routes:
//
//	POST /api/v1/parse     parse the request body and add the triples to the store; nothing is added when any line fails
//	GET  /api/v1/stats     statistics of the store as json
//	GET  /api/v1/triples   all triples as N-Triples
//	GET  /api/v1/nquads    all triples as N-Quads, optionally in the graph given by the "graph" query parameter
type Server struct {
	Store *store.Store
	Stats *stats.Stats

	// Options are the default options used for parsing request bodies.
	// The "strict" query parameter overrides Options.Strict.
	Options ntriples.Options

	init sync.Once
	mux  *mux.Router
}

// Prepare sets up the routes of this server.
// It is called automatically by ServeHTTP.
func (server *Server) Prepare() {
	server.init.Do(func() {
		server.mux = mux.NewRouter()

		api := server.mux.PathPrefix("/api/v1").Subrouter()
		api.HandleFunc("/parse", server.parse).Methods(http.MethodPost)
		api.HandleFunc("/stats", server.stats).Methods(http.MethodGet)
		api.HandleFunc("/triples", server.triples).Methods(http.MethodGet)
		api.HandleFunc("/nquads", server.nquads).Methods(http.MethodGet)
	})
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.Prepare()
	server.mux.ServeHTTP(w, r)
}

// ParseResponse is returned by the parse route.
type ParseResponse struct {
	Triples int `json:"triples"`
}

// ErrorResponse is returned whenever a route fails.
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

func (server *Server) parse(w http.ResponseWriter, r *http.Request) {
	options := server.Options
	if value := r.URL.Query().Get("strict"); value != "" {
		strict, err := strconv.ParseBool(value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid strict parameter %q", value)})
			return
		}
		options.Strict = strict
	}

	// the store only receives triples once the whole body has been parsed
	var collector ntriples.Collector
	parser := ntriples.Parser{
		Options: options,
		Sink:    &collector,
	}

	_, err := parser.ParseContext(r.Context(), r.Body)
	if err == nil {
		err = server.Store.Add(collector.Triples...)
	}
	if err != nil {
		server.Stats.LogError("parse request", err)
	}

	if pe, ok := ntriples.AsParseError(err); ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: pe.Error(), Line: pe.Line})
		return
	}
	if errors.Is(err, imap.ErrFinalized) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "store does not accept new triples"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	server.Stats.SetStoreStats(server.Store.Stats())
	writeJSON(w, http.StatusOK, ParseResponse{Triples: collector.Len()})
}

func (server *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, server.Store.Stats())
}

func (server *Server) triples(w http.ResponseWriter, r *http.Request) {
	triples := server.Store.Triples()
	defer triples.Close()

	w.Header().Set("Content-Type", "application/n-triples; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	for triples.Next() {
		if _, err := fmt.Fprintln(w, triples.Datum().String()); err != nil {
			return
		}
	}
	if err := triples.Err(); err != nil {
		// headers are already sent
		server.Stats.LogError("stream triples", err)
	}
}

func (server *Server) nquads(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/n-quads; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	exp := exporter.NewNQuads(w, r.URL.Query().Get("graph"))
	if err := exporter.Export(server.Store, exp, nil); err != nil {
		server.Stats.LogError("stream nquads", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}
