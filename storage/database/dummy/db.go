package dummydb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/schedule"
)

var errDuplicateKey = errors.New(`duplicate key value violates unique constraint "camps_pkey"`)

type (
	// DB is an in-memory store for tests and local runs.
	DB struct {
		camp     *campTable
		schedule *scheduleTable
	}

	campTable struct {
		sync.RWMutex
		rows    []campRecord // insertion order
		seq     int
		failure error
		subs    map[int]func()
		nextSub int
	}

	campRecord struct {
		seq  int
		camp camp.Camp
	}

	scheduleTable struct {
		sync.RWMutex
		table   map[string]schedule.SavedSchedule
		failure error
	}
)

func Open() (*DB, error) {
	db := &DB{
		camp:     &campTable{subs: make(map[int]func())},
		schedule: &scheduleTable{table: make(map[string]schedule.SavedSchedule)},
	}
	return db, nil
}

// Fail makes every following store operation fail with err, as an unreachable database would.
// Fail(nil) restores the store.
func (db *DB) Fail(err error) {
	db.camp.Lock()
	db.camp.failure = err
	db.camp.Unlock()

	db.schedule.Lock()
	db.schedule.failure = err
	db.schedule.Unlock()
}
