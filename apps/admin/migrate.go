package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/trezcool/goose"

	"github.com/trezcool/campweek/apps"
)

type (
	gooseFunc        func(db *sql.DB, fsys fs.FS, dir string) error
	gooseVersionFunc func(db *sql.DB, fsys fs.FS, dir string, version int64) error
)

// mockable
var (
	gooseFuncs = map[string]gooseFunc{
		"up":        goose.Up,
		"up-by-one": goose.UpByOne,
		"down":      goose.Down,
		"redo":      goose.Redo,
	}
	gooseVersionFuncs = map[string]gooseVersionFunc{
		"up-to":   goose.UpTo,
		"down-to": goose.DownTo,
	}
)

type migrator struct {
	db   *sql.DB
	fsys fs.FS
	dir  string
}

func (m *migrator) run(command string, args ...string) error {
	if fn, ok := gooseFuncs[command]; ok {
		return fn(m.db, m.fsys, m.dir)
	}

	fn, ok := gooseVersionFuncs[command]
	if !ok {
		return apps.NewArgumentError(fmt.Sprintf("%q: no such command", command))
	}
	if len(args) == 0 {
		return apps.NewArgumentError(fmt.Sprintf("%s must be of form: migrate %s VERSION", command, command))
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return apps.NewArgumentError(fmt.Sprintf("version must be a number (got '%s')", args[0]))
	}
	return fn(m.db, m.fsys, m.dir, version)
}
