package dummydb

import (
	"context"

	"github.com/trezcool/campweek/core/camp"
)

func demoCamps() []camp.Camp {
	return []camp.Camp{
		{
			ID:             "sport-swim-01",
			Title:          "游泳體能營",
			Org:            "藍海運動",
			Location:       "大安運動中心",
			Category:       camp.CategorySport,
			Price:          3000,
			PriceLabel:     "$3,000",
			DaysText:       "5天 (一至五)",
			DayIndices:     []int{0, 1, 2, 3, 4},
			AvailableWeeks: []camp.WeekID{camp.Week1},
			Color:          "bg-blue-50 text-blue-700 border-blue-200 hover:border-blue-300",
			Icon:           "🏊",
			Details: camp.Details{
				Desc:         "上午游泳課程",
				Highlights:   []string{"小班教學"},
				ScheduleType: camp.ScheduleGrid,
				Grid: []camp.GridRow{
					{Time: "09:00", Cells: map[string]string{"d1": "自由式", "d2": "蛙式"}},
					{Time: "11:00", Cells: map[string]string{"d1": "水中遊戲"}},
				},
			},
		},
		{
			ID:             "horse-ride-01",
			Title:          "小小騎士營",
			Org:            "綠野馬場",
			Location:       "林口",
			Category:       camp.CategoryHorse,
			Price:          7500,
			PriceLabel:     "$7,500",
			DaysText:       "5天 (一至五)",
			DayIndices:     []int{0, 1, 2, 3, 4},
			AvailableWeeks: []camp.WeekID{camp.Week1, camp.Week2},
			Color:          "bg-amber-50 text-amber-700 border-amber-200 hover:border-amber-300",
			Icon:           "🐴",
			Details: camp.Details{
				Desc:         "全日騎馬體驗",
				Highlights:   []string{"含午餐"},
				ScheduleType: camp.ScheduleBiWeeklyGrid,
				GridWeek1: []camp.GridRow{
					{Time: "09:00", Cells: map[string]string{"d1": "認識馬匹"}},
					{Time: "13:30", Cells: map[string]string{"d1": "騎乘練習"}},
				},
				GridWeek2: []camp.GridRow{
					{Time: "09:00", Cells: map[string]string{"d1": "馬場整理"}},
				},
			},
		},
		{
			ID:             "music-band-01",
			Title:          "冬季樂團營",
			Org:            "音樂工坊",
			Location:       "信義",
			Category:       camp.CategoryMusic,
			Price:          4500,
			PriceLabel:     "$4,500",
			DaysText:       "5天 (一至五)",
			DayIndices:     []int{0, 1, 2, 3, 4},
			AvailableWeeks: []camp.WeekID{camp.Week2},
			Color:          "bg-purple-50 text-purple-700 border-purple-200 hover:border-purple-300",
			Icon:           "🎸",
			Details: camp.Details{
				Desc:         "合奏與成果發表",
				Highlights:   []string{"成果發表會"},
				ScheduleType: camp.ScheduleGrid,
				Grid: []camp.GridRow{
					{Time: "09:30", Cells: map[string]string{"d1": "分組練習"}},
					{Time: "12:00", Cells: map[string]string{"d1": "Lunch"}},
				},
			},
		},
	}
}

// Seed stores a few demo camps; it is a no-op once the store holds any camp.
func Seed(ctx context.Context, repo camp.Repository) error {
	existing, err := repo.QueryAllCamps(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range demoCamps() {
		if _, err = repo.CreateCamp(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
