// Command ntparse parses N-Triples files into a deduplicating store.
// The store can be exported to N-Quads, Turtle or an sql database, or served over http.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/FAU-CDI/ntparse"
	"github.com/FAU-CDI/ntparse/internal/server"
	"github.com/FAU-CDI/ntparse/internal/stats"
	"github.com/FAU-CDI/ntparse/internal/store"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/anglo-korean/rdf"
	"github.com/pkg/profile"
	"github.com/tkw1536/pkglib/perf"
)

// cspell:words nquads ntparse

const usage = "Usage: ntparse [-help] [...flags] /path/to/data.nt [/path/to/more ...]"

func main() {
	st := stats.NewStats(os.Stderr, debugLog)
	defer st.Close()

	if debugProfile != "" {
		defer profile.Start(profile.ProfilePath(debugProfile)).Stop()
	}
	if debugServer != "" {
		go listenDebug(st)
	}

	if len(nArgs) == 0 {
		st.Log(usage)
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// find the sources
	var sources []string
	err := st.DoStage(stats.StageFindSources, func() (err error) {
		sources, err = ntparse.FindSources(nArgs...)
		return
	})
	if err != nil {
		st.Log(usage)
		st.LogFatal("find sources", err)
	}

	if cache != "" {
		st.Log("caching data on-disk", "path", cache)
	}

	triples, err := store.New(store.NewEngine(cache))
	if err != nil {
		st.LogFatal("create store", err)
	}
	defer triples.Close()

	// parse all the sources
	options := ntriples.Options{
		Strict:          strict,
		FreshBlankNodes: freshBlankNodes,
		MaxLineBytes:    maxLineBytes,
	}
	err = st.DoStage(stats.StageParse, func() error {
		sink := st.Sink(triples)
		for _, source := range sources {
			if strict && ntparse.FormatOf(source) == ntparse.FormatNQuads {
				st.LogDebug("strict mode does not apply to N-Quads", "path", source)
			}
			count, err := ntparse.Load(ctx, source, options, sink)
			if err != nil {
				if pe, ok := ntriples.AsParseError(err); ok {
					st.LogError("invalid statement", err, "path", source, "line", pe.Line)
				}
				return err
			}
			st.LogDebug("loaded source", "path", source, "format", ntparse.FormatOf(source), "triples", count)
		}
		return nil
	})
	if err != nil {
		st.LogFatal("parse", err)
	}

	storeStats := triples.Stats()
	st.SetStoreStats(storeStats)
	st.Log("finished parsing",
		"sources", len(sources),
		"triples", storeStats.Triples,
		"duplicates", storeStats.Duplicates,
		"terms", storeStats.Terms,
		"predicates", storeStats.TopPredicates(topPredicates),
	)

	// serve the store, accepting further triples
	if addr != "" {
		serve(ctx, triples, options, st)
		return
	}

	if err := st.DoStage(stats.StageFinalize, triples.Finalize); err != nil {
		st.LogFatal("finalize", err)
	}

	if nquadsPath != "" {
		doNQuads(triples, nquadsPath, st)
	}
	if turtlePath != "" {
		doRDF(triples, turtlePath, rdf.Turtle, st)
	}
	if ntriplesPath != "" {
		doRDF(triples, ntriplesPath, rdf.NTriples, st)
	}
	switch {
	case mysql != "":
		doSQL(triples, "mysql", mysql, mysqlMaxQueryVar, st)
	case sqlite != "":
		doSQL(triples, "sqlite", sqlite, sqliteMaxQueryVar, st)
	}

	st.Log("finished", "took", st.Diff(), "now", perf.Now())
}

func serve(ctx context.Context, triples *store.Store, options ntriples.Options, st *stats.Stats) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		st.LogFatal("listen", err)
	}
	st.Log("listen", "addr", listener.Addr().String())

	srv := http.Server{
		Handler: &server.Server{
			Store:   triples,
			Stats:   st,
			Options: options,
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			st.LogError("shutdown", err)
		}
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		st.LogFatal("serve", err)
	}
}

// ===================

var nArgs []string

var strict bool
var freshBlankNodes bool
var maxLineBytes int

var cache string
var topPredicates = 5

var nquadsPath string
var graph string
var turtlePath string
var ntriplesPath string

var sqlite string
var mysql string
var sqlTable string

var addr string

var debugLog bool
var debugServer string
var debugProfile string

func init() {
	flag.BoolVar(&strict, "strict", strict, "Reject statements that are not valid N-Triples, such as raw non-ascii characters. Does not apply to N-Quads sources")
	flag.BoolVar(&freshBlankNodes, "fresh-bnodes", freshBlankNodes, "Replace blank node labels with fresh identifiers")
	flag.IntVar(&maxLineBytes, "max-line", maxLineBytes, "Maximal length of a single line in bytes, 0 for the default and -1 for no limit")

	flag.StringVar(&cache, "cache", cache, "Cache the store in the given directory as opposed to memory")
	flag.IntVar(&topPredicates, "top", topPredicates, "Number of most frequent predicates to log after parsing")

	flag.StringVar(&nquadsPath, "nquads", nquadsPath, "Export the store as N-Quads to the given path")
	flag.StringVar(&graph, "graph", graph, "Graph IRI to use for N-Quads export")
	flag.StringVar(&turtlePath, "turtle", turtlePath, "Export the store as Turtle to the given path")
	flag.StringVar(&ntriplesPath, "ntriples", ntriplesPath, "Export the store as N-Triples to the given path")

	flag.StringVar(&sqlite, "sqlite", sqlite, "Export the store to an sqlite database at the given path")
	flag.StringVar(&mysql, "mysql", mysql, "Export the store to a mysql database. Use a connection string of the form `username:password@host/database`")
	flag.StringVar(&sqlTable, "sql-table", sqlTable, "Table to export triples into")

	flag.StringVar(&addr, "addr", addr, "Instead of exporting, serve the store at the given address")

	flag.BoolVar(&debugLog, "debug", debugLog, "Log debugging messages")
	flag.StringVar(&debugServer, "debug-listen", debugServer, "Start a profiling server on the given address")
	flag.StringVar(&debugProfile, "debug-profile", debugProfile, "Write out a debugging profile to the given path")

	flag.Parse()
	nArgs = flag.Args()
}
