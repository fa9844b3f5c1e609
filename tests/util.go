package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	logsvc "github.com/trezcool/campweek/services/logger"
)

// NewLogger returns a disabled rollbar logger writing nowhere.
func NewLogger() core.Logger {
	conf := &core.Config{Env: "TEST", TestMode: true}
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

// NewCamp returns a stored-shape camp with sensible defaults.
func NewCamp(id, title string, category camp.Category, price int, weeks ...camp.WeekID) camp.Camp {
	if weeks == nil {
		weeks = []camp.WeekID{camp.Week1, camp.Week2}
	}
	c := camp.Camp{
		ID:             id,
		Title:          title,
		Org:            "Org " + title,
		Location:       "Taipei",
		Category:       category,
		Price:          price,
		PriceLabel:     camp.FormatPrice(price),
		DaysText:       "5天 (一至五)",
		DayIndices:     []int{0, 1, 2, 3, 4},
		AvailableWeeks: weeks,
		Color:          "bg-blue-50 text-blue-700",
		Icon:           "⛺",
	}
	c.Normalize()
	return c
}

func CreateCamp(
	t *testing.T,
	repo camp.Repository,
	id, title string,
	category camp.Category,
	price int,
	weeks ...camp.WeekID,
) camp.Camp {
	c, err := repo.CreateCamp(context.Background(), NewCamp(id, title, category, price, weeks...))
	if err != nil {
		t.Fatalf("CreateCamp() failed: %v", err)
	}
	return c
}
