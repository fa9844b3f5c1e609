package dummydb

import (
	"context"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func copyWeeks(weeks map[camp.WeekID]string) map[camp.WeekID]string {
	cp := make(map[camp.WeekID]string, len(weeks))
	for w, id := range weeks {
		cp[w] = id
	}
	return cp
}

func (repo *scheduleRepository) SaveUserSchedule(ctx context.Context, saved schedule.SavedSchedule) (schedule.SavedSchedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.failure != nil {
		return schedule.SavedSchedule{}, core.NewStoreError("save schedule", repo.db.failure)
	}
	saved.Weeks = copyWeeks(saved.Weeks)
	repo.db.table[saved.UserID] = saved

	saved.Weeks = copyWeeks(saved.Weeks)
	return saved, nil
}

func (repo *scheduleRepository) LoadUserSchedule(ctx context.Context, userID string) (schedule.SavedSchedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.failure != nil {
		return schedule.SavedSchedule{}, core.NewStoreError("load schedule", repo.db.failure)
	}
	saved, ok := repo.db.table[userID]
	if !ok {
		return schedule.SavedSchedule{}, schedule.ErrNotFound
	}
	saved.Weeks = copyWeeks(saved.Weeks)
	return saved, nil
}
