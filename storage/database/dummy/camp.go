package dummydb

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

type campRepository struct {
	db *campTable
}

var _ camp.Repository = (*campRepository)(nil) // interface compliance check

func NewCampRepository(db *DB) camp.Repository {
	return &campRepository{db: db.camp}
}

// clone deep-copies c the way a round trip through the database would.
func clone(c camp.Camp) camp.Camp {
	cp := c
	cp.DayIndices = append([]int(nil), c.DayIndices...)
	cp.AvailableWeeks = append([]camp.WeekID(nil), c.AvailableWeeks...)
	if raw, err := json.Marshal(c.Details); err == nil {
		if d, err := camp.DecodeDetails(raw); err == nil {
			cp.Details = d
		}
	}
	cp.Normalize()
	return cp
}

func (repo *campRepository) QueryAllCamps(ctx context.Context) ([]camp.Camp, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.failure != nil {
		return nil, core.NewStoreError("query camps", repo.db.failure)
	}
	rows := append([]campRecord(nil), repo.db.rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].camp.Category < rows[j].camp.Category })

	camps := make([]camp.Camp, 0, len(rows))
	for _, row := range rows {
		camps = append(camps, clone(row.camp))
	}
	return camps, nil
}

func (repo *campRepository) GetCampByID(ctx context.Context, id string) (camp.Camp, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.failure != nil {
		return camp.Camp{}, core.NewStoreError("get camp", repo.db.failure)
	}
	for _, row := range repo.db.rows {
		if row.camp.ID == id {
			return clone(row.camp), nil
		}
	}
	return camp.Camp{}, camp.ErrNotFound
}

func (repo *campRepository) CreateCamp(ctx context.Context, c camp.Camp) (camp.Camp, error) {
	repo.db.Lock()
	if repo.db.failure != nil {
		err := repo.db.failure
		repo.db.Unlock()
		return camp.Camp{}, core.NewStoreError("insert camp", err)
	}
	for _, row := range repo.db.rows {
		if row.camp.ID == c.ID {
			repo.db.Unlock()
			return camp.Camp{}, core.NewStoreError("insert camp", errDuplicateKey)
		}
	}
	repo.db.seq++
	stored := clone(c)
	repo.db.rows = append(repo.db.rows, campRecord{seq: repo.db.seq, camp: stored})
	repo.db.Unlock()

	repo.db.notify()
	return clone(stored), nil
}

func (repo *campRepository) DeleteCamp(ctx context.Context, id string) error {
	repo.db.Lock()
	if repo.db.failure != nil {
		err := repo.db.failure
		repo.db.Unlock()
		return core.NewStoreError("delete camp", err)
	}
	idx := -1
	for i, row := range repo.db.rows {
		if row.camp.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		repo.db.Unlock()
		return camp.ErrNotFound
	}
	repo.db.rows = append(repo.db.rows[:idx], repo.db.rows[idx+1:]...)
	repo.db.Unlock()

	repo.db.notify()
	return nil
}

func (repo *campRepository) SubscribeToChanges(onChange func()) (camp.Subscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	id := repo.db.nextSub
	repo.db.nextSub++
	repo.db.subs[id] = onChange
	return &subscription{stop: func() {
		repo.db.Lock()
		delete(repo.db.subs, id)
		repo.db.Unlock()
	}}, nil
}

// notify calls the subscribers on their own goroutines, like the database change feed does.
func (t *campTable) notify() {
	t.RLock()
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.RUnlock()

	for _, fn := range fns {
		go fn()
	}
}

type subscription struct {
	once sync.Once
	stop func()
}

func (s *subscription) Stop() {
	s.once.Do(s.stop)
}
