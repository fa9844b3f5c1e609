package camp

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
)

const (
	customColor    = "bg-gray-50 text-gray-700 border-gray-200 hover:border-gray-300"
	customIcon     = "✨"
	customDaysText = "5天 (一至五)"
)

var (
	// errors
	ErrNotFound = errors.New("camp not found")

	customDayIndices = []int{0, 1, 2, 3, 4}
)

type (
	// Subscription is a registered change callback; Stop deregisters it.
	Subscription interface {
		Stop()
	}

	Repository interface {
		// QueryAllCamps returns every camp ordered by category ascending, insertion order within a category.
		QueryAllCamps(ctx context.Context) ([]Camp, error)
		GetCampByID(ctx context.Context, id string) (Camp, error)
		// CreateCamp stores the camp and returns the stored record.
		CreateCamp(ctx context.Context, c Camp) (Camp, error)
		DeleteCamp(ctx context.Context, id string) error
		// SubscribeToChanges calls onChange on any insert, update or delete of the catalog.
		// No diff is delivered: every call is a signal to reload.
		SubscribeToChanges(onChange func()) (Subscription, error)
	}

	Service struct {
		repo Repository
	}
)

// NewCamp contains the information needed to add a custom Camp.
type NewCamp struct {
	Title      string   `json:"title" validate:"required"`
	Org        string   `json:"org" validate:"required"`
	Location   string   `json:"location" validate:"required"`
	Price      *int     `json:"price" validate:"required,min=0"`
	PriceLabel string   `json:"price_label"`
	Category   Category `json:"category" validate:"campcategory"`
	DaysText   string   `json:"days_text"`
	Weeks      []WeekID `json:"weeks" validate:"dive,weekid"`
	URL        string   `json:"url" validate:"omitempty,url"`
	Details    *Details `json:"details"`
}

func (nc *NewCamp) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Org = core.CleanString(nc.Org)
	nc.Location = core.CleanString(nc.Location)
	nc.PriceLabel = core.CleanString(nc.PriceLabel)
	nc.DaysText = core.CleanString(nc.DaysText)
	nc.URL = core.CleanString(nc.URL)
	if nc.Category == "" {
		nc.Category = CategoryGeneral
	}
	if nc.DaysText == "" {
		nc.DaysText = customDaysText
	}
	if nc.Weeks == nil {
		nc.Weeks = []WeekID{Week1}
	}
	return validate.Struct(nc)
}

// Draft builds the record handed to the store for a validated NewCamp.
func (nc NewCamp) Draft() Camp {
	var price int
	if nc.Price != nil {
		price = *nc.Price
	}
	label := nc.PriceLabel
	if label == "" {
		label = "$" + strconv.Itoa(price)
	}
	details := DefaultDetails()
	if nc.Details != nil {
		details = *nc.Details
	}
	c := Camp{
		ID:             GenerateID(customIDPrefix),
		Title:          nc.Title,
		Org:            nc.Org,
		Location:       nc.Location,
		Category:       nc.Category,
		Price:          price,
		PriceLabel:     label,
		DaysText:       nc.DaysText,
		DayIndices:     append([]int(nil), customDayIndices...),
		AvailableWeeks: append([]WeekID(nil), nc.Weeks...),
		Color:          customColor,
		Icon:           customIcon,
		URL:            nc.URL,
		Details:        details,
	}
	c.Normalize()
	return c
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Camp, error) {
	camps, err := svc.repo.QueryAllCamps(ctx)
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return camps, nil
}

func (svc *Service) Filter(ctx context.Context, category Category) ([]Camp, error) {
	camps, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(camps, category), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Camp, error) {
	return svc.repo.GetCampByID(ctx, core.CleanString(id))
}

// Create stores a custom camp built from a validated NewCamp and returns the stored copy.
func (svc *Service) Create(ctx context.Context, nc NewCamp) (Camp, error) {
	c, err := svc.repo.CreateCamp(ctx, nc.Draft())
	if err != nil {
		return Camp{}, pkgerrors.WithStack(err)
	}
	return c, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCamp(ctx, core.CleanString(id))
}

func (svc *Service) Subscribe(onChange func()) (Subscription, error) {
	return svc.repo.SubscribeToChanges(onChange)
}
