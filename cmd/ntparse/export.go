package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/FAU-CDI/ntparse/internal/exporter"
	"github.com/FAU-CDI/ntparse/internal/stats"
	"github.com/FAU-CDI/ntparse/internal/store"
	"github.com/anglo-korean/rdf"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
)

const (
	sqliteMaxQueryVar = 32766 // see https://www.sqlite.org/limits.html
	mysqlMaxQueryVar  = 65535
	sqlBatchSize      = 1000
)

// exportFile writes the store into a newly created file using the exporter returned by create.
func exportFile(st *store.Store, stage stats.Stage, path string, create func(f *os.File) exporter.Exporter, sts *stats.Stats) {
	err := sts.DoStage(stage, func() (e error) {
		file, err := os.Create(path) // #nosec G304 -- explicit flag
		if err != nil {
			return err
		}
		defer func() {
			if e2 := file.Close(); e2 != nil && e == nil {
				e = fmt.Errorf("failed to close file: %w", e2)
			}
		}()

		return exporter.Export(st, create(file), sts)
	})
	if err != nil {
		sts.LogFatal("export", err)
	}
	sts.Log("exported", "stage", stage, "path", path)
}

func doNQuads(st *store.Store, path string, sts *stats.Stats) {
	exportFile(st, stats.StageExportNQuads, path, func(f *os.File) exporter.Exporter {
		return exporter.NewNQuads(f, graph)
	}, sts)
}

func doRDF(st *store.Store, path string, format rdf.Format, sts *stats.Stats) {
	exportFile(st, stats.StageExportRDF, path, func(f *os.File) exporter.Exporter {
		return exporter.NewRDF(f, format)
	}, sts)
}

func doSQL(st *store.Store, proto, addr string, maxQueryVar int, sts *stats.Stats) {
	db, err := sql.Open(proto, addr)
	if err != nil {
		sts.LogFatal("open sql", err)
	}

	err = sts.DoStage(stats.StageExportSQL, func() error {
		exp, err := exporter.NewSQL(db, sqlTable, sqlBatchSize, maxQueryVar)
		if err != nil {
			return errors.Join(err, db.Close())
		}
		return exporter.Export(st, exp, sts)
	})
	if err != nil {
		sts.LogFatal("export sql", err)
	}
}
