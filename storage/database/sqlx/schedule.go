package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/schedule"
)

type scheduleRow struct {
	UserID       string         `db:"user_id"`
	ScheduleData types.JSONText `db:"schedule_data"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// schedule_data is stored as {"2": "<camp id>", "3": "<camp id>"}
func (row scheduleRow) toSaved() (schedule.SavedSchedule, error) {
	var data map[string]string
	if err := row.ScheduleData.Unmarshal(&data); err != nil {
		return schedule.SavedSchedule{}, errors.Wrap(err, "decoding schedule data")
	}
	saved := schedule.SavedSchedule{
		UserID:    row.UserID,
		Weeks:     make(map[camp.WeekID]string, len(data)),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	for k, id := range data {
		w, err := strconv.Atoi(k)
		if err != nil || id == "" {
			continue
		}
		saved.Weeks[camp.WeekID(w)] = id
	}
	return saved, nil
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sql.DB) schedule.Repository {
	return &scheduleRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *scheduleRepository) SaveUserSchedule(ctx context.Context, saved schedule.SavedSchedule) (schedule.SavedSchedule, error) {
	data := make(map[string]string, len(saved.Weeks))
	for w, id := range saved.Weeks {
		data[strconv.Itoa(int(w))] = id
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return schedule.SavedSchedule{}, errors.Wrap(err, "encoding schedule data")
	}

	q := `INSERT INTO user_schedules (user_id, schedule_data, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE SET schedule_data = EXCLUDED.schedule_data, updated_at = EXCLUDED.updated_at
	RETURNING user_id, schedule_data, updated_at`
	var row scheduleRow
	err = repo.db.QueryRowxContext(ctx, q, saved.UserID, types.JSONText(raw), saved.UpdatedAt).StructScan(&row)
	if err != nil {
		return schedule.SavedSchedule{}, core.NewStoreError("save schedule", err)
	}
	return row.toSaved()
}

func (repo *scheduleRepository) LoadUserSchedule(ctx context.Context, userID string) (schedule.SavedSchedule, error) {
	var row scheduleRow
	q := "SELECT user_id, schedule_data, updated_at FROM user_schedules WHERE user_id = $1"
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return schedule.SavedSchedule{}, schedule.ErrNotFound
		}
		return schedule.SavedSchedule{}, core.NewStoreError("load schedule", err)
	}
	return row.toSaved()
}
