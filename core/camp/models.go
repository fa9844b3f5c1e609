package camp

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// Categories
const (
	CategoryAll     Category = "All" // filter only, never stored on a Camp
	CategorySport   Category = "Sport"
	CategoryHorse   Category = "Horse"
	CategoryDance   Category = "Dance"
	CategoryMusic   Category = "Music"
	CategoryGeneral Category = "General"
)

// Weeks
const (
	Week1 WeekID = 2
	Week2 WeekID = 3
)

// Schedule types
const (
	ScheduleGrid         ScheduleType = "grid"
	ScheduleBiWeeklyGrid ScheduleType = "bi-weekly-grid"
)

var (
	Categories = []CategoryInfo{
		{ID: CategoryAll, Label: "全部"},
		{ID: CategorySport, Label: "運動"},
		{ID: CategoryHorse, Label: "騎馬"},
		{ID: CategoryDance, Label: "街舞"},
		{ID: CategoryMusic, Label: "音樂"},
		{ID: CategoryGeneral, Label: "綜合"},
	}

	Weeks = []Week{
		{ID: Week1, Label: "第一週 Week 1", Date: "2/02 - 2/06", Sub: "年後第一週"},
		{ID: Week2, Label: "第二週 Week 2", Date: "2/09 - 2/13", Sub: "開學前一週"},
	}

	WeekIDs = []WeekID{Week1, Week2}
)

type (
	Category     string
	WeekID       int
	ScheduleType string

	CategoryInfo struct {
		ID    Category `json:"id"`
		Label string   `json:"label"`
	}

	Week struct {
		ID    WeekID `json:"id"`
		Label string `json:"label"`
		Date  string `json:"date"`
		Sub   string `json:"sub"`
	}
)

// IsStored reports whether c may be set on a Camp (any known category but All).
func (c Category) IsStored() bool {
	switch c {
	case CategorySport, CategoryHorse, CategoryDance, CategoryMusic, CategoryGeneral:
		return true
	}
	return false
}

func (w WeekID) IsValid() bool {
	return w == Week1 || w == Week2
}

type Camp struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Org            string   `json:"org"`
	Location       string   `json:"location"`
	Category       Category `json:"category"`
	Price          int      `json:"price"`
	PriceLabel     string   `json:"price_label"`
	DaysText       string   `json:"days_text"`
	DayIndices     []int    `json:"day_indices"`
	AvailableWeeks []WeekID `json:"available_weeks"`
	Color          string   `json:"color"`
	Icon           string   `json:"icon"`
	URL            string   `json:"url,omitempty"`
	Details        Details  `json:"details"`
}

// Normalize applies the ingest defaults: no nil slices, no negative price and a schedule type.
func (c *Camp) Normalize() {
	if c.Price < 0 {
		c.Price = 0
	}
	if c.DayIndices == nil {
		c.DayIndices = []int{}
	}
	if c.AvailableWeeks == nil {
		c.AvailableWeeks = []WeekID{}
	}
	c.Details.normalize()
}

type Details struct {
	Desc         string       `json:"desc"`
	Highlights   []string     `json:"highlights"`
	ScheduleType ScheduleType `json:"scheduleType"`
	GridHeader   []string     `json:"gridHeader,omitempty"`
	Grid         []GridRow    `json:"grid,omitempty"`
	GridWeek1    []GridRow    `json:"gridWeek1,omitempty"`
	GridWeek2    []GridRow    `json:"gridWeek2,omitempty"`
}

func (d *Details) normalize() {
	if d.Highlights == nil {
		d.Highlights = []string{}
	}
	if d.ScheduleType == "" {
		d.ScheduleType = ScheduleGrid
	}
}

// Rows returns the rows of all grids in search order: grid, gridWeek1, gridWeek2.
func (d Details) Rows() []GridRow {
	rows := make([]GridRow, 0, len(d.Grid)+len(d.GridWeek1)+len(d.GridWeek2))
	rows = append(rows, d.Grid...)
	rows = append(rows, d.GridWeek1...)
	return append(rows, d.GridWeek2...)
}

// DefaultDetails returns the details given to custom camps added without any.
func DefaultDetails() Details {
	return Details{
		Desc:         "自訂營隊",
		Highlights:   []string{"使用者新增"},
		ScheduleType: ScheduleGrid,
		GridHeader:   []string{"項目", "內容"},
		Grid: []GridRow{
			{Time: "備註", Cells: map[string]string{"d1": "使用者自行新增的營隊行程"}},
		},
	}
}

// DecodeDetails decodes details sent either as a JSON object or as JSON text holding one.
// Empty or null input yields normalized zero Details.
func DecodeDetails(raw []byte) (Details, error) {
	var d Details
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		d.normalize()
		return d, nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Details{}, errors.Wrap(err, "decoding details text")
		}
		return DecodeDetails([]byte(text))
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return Details{}, errors.Wrap(err, "decoding details")
	}
	d.normalize()
	return d, nil
}

// GridRow is one timetable row: a time label plus weekday-keyed cells (d1..d5).
// It is serialized as a flat JSON object, eg. {"time": "09:00", "d1": "Swim"}.
type GridRow struct {
	Time  string
	Cells map[string]string
}

func (r GridRow) MarshalJSON() ([]byte, error) {
	obj := make(map[string]string, len(r.Cells)+1)
	for k, v := range r.Cells {
		obj[k] = v
	}
	if r.Time != "" {
		obj["time"] = r.Time
	}
	return json.Marshal(obj)
}

func (r *GridRow) UnmarshalJSON(data []byte) error {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Time = ""
	r.Cells = make(map[string]string, len(obj))
	for k, v := range obj {
		s := cellText(v)
		if k == "time" {
			r.Time = s
			continue
		}
		r.Cells[k] = s
	}
	return nil
}

// Keys returns the cell keys sorted.
func (r GridRow) Keys() []string {
	keys := make([]string, 0, len(r.Cells))
	for k := range r.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cellText keeps loosely typed cells readable: strings as is, anything else as JSON.
func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
