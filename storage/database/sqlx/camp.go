package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

const campColumns = `id, title, org, location, category, price, price_label, days_text,
	day_indices, available_weeks, color, icon, url, details`

// catalog order: category ascending, insertion order within a category
var campOrdering = core.DBOrderings{
	{Field: "category", Ascending: true},
	{Field: "seq", Ascending: true},
}

type campRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Org            string         `db:"org"`
	Location       string         `db:"location"`
	Category       string         `db:"category"`
	Price          null.Int       `db:"price"`
	PriceLabel     string         `db:"price_label"`
	DaysText       string         `db:"days_text"`
	DayIndices     pq.Int64Array  `db:"day_indices"`
	AvailableWeeks pq.Int64Array  `db:"available_weeks"`
	Color          string         `db:"color"`
	Icon           string         `db:"icon"`
	URL            string         `db:"url"`
	Details        types.JSONText `db:"details"`
}

func newCampRow(c camp.Camp) (campRow, error) {
	details, err := json.Marshal(c.Details)
	if err != nil {
		return campRow{}, errors.Wrap(err, "encoding details")
	}
	row := campRow{
		ID:             c.ID,
		Title:          c.Title,
		Org:            c.Org,
		Location:       c.Location,
		Category:       string(c.Category),
		Price:          null.IntFrom(c.Price),
		PriceLabel:     c.PriceLabel,
		DaysText:       c.DaysText,
		DayIndices:     make(pq.Int64Array, 0, len(c.DayIndices)),
		AvailableWeeks: make(pq.Int64Array, 0, len(c.AvailableWeeks)),
		Color:          c.Color,
		Icon:           c.Icon,
		URL:            c.URL,
		Details:        types.JSONText(details),
	}
	for _, d := range c.DayIndices {
		row.DayIndices = append(row.DayIndices, int64(d))
	}
	for _, w := range c.AvailableWeeks {
		row.AvailableWeeks = append(row.AvailableWeeks, int64(w))
	}
	return row, nil
}

// toCamp applies the ingest defaults; malformed details fall back to empty ones.
func (row campRow) toCamp() camp.Camp {
	c := camp.Camp{
		ID:             row.ID,
		Title:          row.Title,
		Org:            row.Org,
		Location:       row.Location,
		Category:       camp.Category(row.Category),
		Price:          row.Price.Int, // NULL -> 0
		PriceLabel:     row.PriceLabel,
		DaysText:       row.DaysText,
		DayIndices:     make([]int, 0, len(row.DayIndices)),
		AvailableWeeks: make([]camp.WeekID, 0, len(row.AvailableWeeks)),
		Color:          row.Color,
		Icon:           row.Icon,
		URL:            row.URL,
	}
	for _, d := range row.DayIndices {
		c.DayIndices = append(c.DayIndices, int(d))
	}
	for _, w := range row.AvailableWeeks {
		c.AvailableWeeks = append(c.AvailableWeeks, camp.WeekID(w))
	}
	if details, err := camp.DecodeDetails(row.Details); err == nil {
		c.Details = details
	}
	c.Normalize()
	return c
}

type campRepository struct {
	db       *sqlx.DB
	notifier *ChangeNotifier
}

var _ camp.Repository = (*campRepository)(nil) // interface compliance check

// NewCampRepository returns the PostgreSQL catalog store; notifier may be nil when no change feed is needed.
func NewCampRepository(db *sql.DB, notifier *ChangeNotifier) camp.Repository {
	return &campRepository{db: sqlx.NewDb(db, "postgres"), notifier: notifier}
}

func (repo *campRepository) QueryAllCamps(ctx context.Context) ([]camp.Camp, error) {
	var rows []campRow
	q := "SELECT " + campColumns + " FROM camps ORDER BY " + campOrdering.String()
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, core.NewStoreError("query camps", err)
	}

	camps := make([]camp.Camp, 0, len(rows))
	for _, row := range rows {
		camps = append(camps, row.toCamp())
	}
	return camps, nil
}

func (repo *campRepository) GetCampByID(ctx context.Context, id string) (camp.Camp, error) {
	var row campRow
	q := "SELECT " + campColumns + " FROM camps WHERE id = $1"
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return camp.Camp{}, camp.ErrNotFound
		}
		return camp.Camp{}, core.NewStoreError("get camp", err)
	}
	return row.toCamp(), nil
}

func (repo *campRepository) CreateCamp(ctx context.Context, c camp.Camp) (camp.Camp, error) {
	row, err := newCampRow(c)
	if err != nil {
		return camp.Camp{}, err
	}

	q := `INSERT INTO camps (` + campColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING ` + campColumns
	var stored campRow
	err = repo.db.QueryRowxContext(ctx, q,
		row.ID, row.Title, row.Org, row.Location, row.Category, row.Price, row.PriceLabel, row.DaysText,
		row.DayIndices, row.AvailableWeeks, row.Color, row.Icon, row.URL, row.Details,
	).StructScan(&stored)
	if err != nil {
		return camp.Camp{}, core.NewStoreError("insert camp", err)
	}
	return stored.toCamp(), nil
}

func (repo *campRepository) DeleteCamp(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM camps WHERE id = $1", id)
	if err != nil {
		return core.NewStoreError("delete camp", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreError("delete camp", err)
	}
	if n == 0 {
		return camp.ErrNotFound
	}
	return nil
}

func (repo *campRepository) SubscribeToChanges(onChange func()) (camp.Subscription, error) {
	if repo.notifier == nil {
		return nil, errors.New("camp change feed not configured")
	}
	return repo.notifier.Subscribe(onChange), nil
}
