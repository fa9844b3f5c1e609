package schedule

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

var ErrNotFound = errors.New("saved schedule not found")

type (
	// SavedSchedule is a user's persisted week -> camp ID assignment.
	SavedSchedule struct {
		UserID    string                 `json:"user_id"`
		Weeks     map[camp.WeekID]string `json:"schedule_data"`
		UpdatedAt time.Time              `json:"updated_at"` // UTC
	}

	Repository interface {
		// SaveUserSchedule inserts or replaces the user's schedule.
		SaveUserSchedule(ctx context.Context, saved SavedSchedule) (SavedSchedule, error)
		// LoadUserSchedule returns ErrNotFound when the user never saved one.
		LoadUserSchedule(ctx context.Context, userID string) (SavedSchedule, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Save(ctx context.Context, userID string, s *Schedule) (SavedSchedule, error) {
	userID = core.CleanString(userID)
	if userID == "" {
		return SavedSchedule{}, core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "this field is required"})
	}
	saved, err := svc.repo.SaveUserSchedule(ctx, SavedSchedule{
		UserID:    userID,
		Weeks:     s.CampIDs(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return SavedSchedule{}, pkgerrors.WithStack(err)
	}
	return saved, nil
}

// Load rebuilds the user's saved schedule from the given catalog.
// A user without a saved schedule gets an empty one; camps no longer in the catalog leave their week empty.
func (svc *Service) Load(ctx context.Context, userID string, catalog []camp.Camp) (*Schedule, error) {
	userID = core.CleanString(userID)
	if userID == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "this field is required"})
	}
	saved, err := svc.repo.LoadUserSchedule(ctx, userID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return New(), nil
		}
		return nil, pkgerrors.WithStack(err)
	}

	byID := make(map[string]camp.Camp, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}
	s := New()
	for week, id := range saved.Weeks {
		if c, ok := byID[id]; ok {
			s.Toggle(c, week)
		}
	}
	return s, nil
}
