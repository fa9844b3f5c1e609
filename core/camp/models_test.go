package camp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetails(t *testing.T) {
	object := `{"desc":"Ride","highlights":["ponies"],"scheduleType":"bi-weekly-grid","gridWeek1":[{"time":"09:00","d1":"Groom"}]}`
	text, err := json.Marshal(object)
	require.NoError(t, err)

	want := Details{
		Desc:         "Ride",
		Highlights:   []string{"ponies"},
		ScheduleType: ScheduleBiWeeklyGrid,
		GridWeek1:    []GridRow{{Time: "09:00", Cells: map[string]string{"d1": "Groom"}}},
	}

	tests := []struct {
		name    string
		raw     string
		want    Details
		wantErr bool
	}{
		{name: "object", raw: object, want: want},
		{name: "json text", raw: string(text), want: want},
		{name: "empty", raw: "", want: Details{Highlights: []string{}, ScheduleType: ScheduleGrid}},
		{name: "null", raw: "null", want: Details{Highlights: []string{}, ScheduleType: ScheduleGrid}},
		{name: "empty object", raw: "{}", want: Details{Highlights: []string{}, ScheduleType: ScheduleGrid}},
		{name: "malformed", raw: "{desc", wantErr: true},
		{name: "malformed text", raw: `"{desc"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDetails([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGridRow_JSON(t *testing.T) {
	var r GridRow
	require.NoError(t, json.Unmarshal([]byte(`{"time":"13:00","d1":"Swim","d2":3,"d3":null}`), &r))
	assert.Equal(t, "13:00", r.Time)
	assert.Equal(t, map[string]string{"d1": "Swim", "d2": "3", "d3": ""}, r.Cells)
	assert.Equal(t, []string{"d1", "d2", "d3"}, r.Keys())

	data, err := json.Marshal(GridRow{Time: "09:00", Cells: map[string]string{"d1": "Art"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"09:00","d1":"Art"}`, string(data))
}

func TestCamp_Normalize(t *testing.T) {
	c := Camp{Price: -10}
	c.Normalize()
	assert.Equal(t, 0, c.Price)
	assert.Equal(t, []int{}, c.DayIndices)
	assert.Equal(t, []WeekID{}, c.AvailableWeeks)
	assert.Equal(t, []string{}, c.Details.Highlights)
	assert.Equal(t, ScheduleGrid, c.Details.ScheduleType)
}

func TestCategory_IsStored(t *testing.T) {
	for _, info := range Categories {
		assert.Equal(t, info.ID != CategoryAll, info.ID.IsStored(), info.ID)
	}
	assert.False(t, Category("Chess").IsStored())
}
