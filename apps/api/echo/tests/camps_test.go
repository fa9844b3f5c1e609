package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/campweek/apps/api/echo"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/tests"
)

func Test_home(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Camp Week Planner API!", rec.Body.String())

	rec = env.do(http.MethodGet, "/v1/health")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"status":"ok"}`)}, rec)
}

func Test_referenceApi(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{name: "weeks", path: "/v1/weeks", wantCode: http.StatusOK, wantData: marchallObj(t, camp.Weeks)},
		{name: "categories", path: "/v1/categories", wantCode: http.StatusOK, wantData: marchallObj(t, camp.Categories)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(http.MethodGet, tt.path))
		})
	}
}

func Test_campApi_query(t *testing.T) {
	env := setup(t)

	swim := testutil.CreateCamp(t, env.campRepo, "swim", "Swim", camp.CategorySport, 3000)
	ride := testutil.CreateCamp(t, env.campRepo, "ride", "Ride", camp.CategoryHorse, 7500)
	run := testutil.CreateCamp(t, env.campRepo, "run", "Run", camp.CategorySport, 2000)
	env.reload(t)

	tests := []httpTest{
		{
			name: "all, ordered by category", path: "/v1/camps", wantCode: http.StatusOK,
			wantData: marchallList(t, NewCampView(ride), NewCampView(swim), NewCampView(run)),
		},
		{
			name: "category=All", path: "/v1/camps?category=All", wantCode: http.StatusOK,
			wantData: marchallList(t, NewCampView(ride), NewCampView(swim), NewCampView(run)),
		},
		{
			name: "category=Sport", path: "/v1/camps?category=Sport", wantCode: http.StatusOK,
			wantData: marchallList(t, NewCampView(swim), NewCampView(run)),
		},
		{name: "category=Dance", path: "/v1/camps?category=Dance", wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(http.MethodGet, tt.path))
		})
	}
}

func Test_campApi_view(t *testing.T) {
	env := setup(t)
	c := testutil.NewCamp("swim", "Swim", camp.CategorySport, 7500)
	c.Color = "bg-blue-50 text-blue-700 border-blue-200"
	c.Details.Grid = []camp.GridRow{{Time: "13:30", Cells: map[string]string{"d1": "Pool"}}}
	_, err := env.campRepo.CreateCamp(context.Background(), c)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/v1/camps/swim")
	require.Equal(t, http.StatusOK, rec.Code)

	var view map[string]interface{}
	unmarshal(t, rec, &view)
	assert.Equal(t, "swim", view["id"])
	assert.Equal(t, "full", view["duration"])
	assert.Equal(t, "全", view["duration_label"])
	assert.Equal(t, "bg-blue-50", view["bg_color"])
	assert.Equal(t, "$7,500", view["price_display"])
}

func Test_campApi_retrieve(t *testing.T) {
	env := setup(t)
	swim := testutil.CreateCamp(t, env.campRepo, "swim", "Swim", camp.CategorySport, 3000)

	tests := []httpTest{
		{name: "found", path: "/v1/camps/swim", wantCode: http.StatusOK, wantData: marchallObj(t, NewCampView(swim))},
		{name: "unknown", path: "/v1/camps/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "camp not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(http.MethodGet, tt.path))
		})
	}
}

func Test_campApi_create(t *testing.T) {
	env := setup(t)
	env.reload(t)

	t.Run("valid draft", func(t *testing.T) {
		body := []byte(`{"title": " Art ", "org": "Studio", "location": "Da-an", "price": 2500}`)
		rec := env.do(http.MethodPost, "/v1/camps", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got CampView
		unmarshal(t, rec, &got)
		assert.True(t, strings.HasPrefix(got.ID, "custom-"), got.ID)
		assert.Equal(t, "Art", got.Title)
		assert.Equal(t, camp.CategoryGeneral, got.Category)
		assert.Equal(t, "$2500", got.PriceLabel)
		assert.Equal(t, []camp.WeekID{camp.Week1}, got.AvailableWeeks)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, got.DayIndices)
		assert.Equal(t, camp.ScheduleGrid, got.Details.ScheduleType)
		assert.Len(t, got.Details.Grid, 1)

		found, ok := env.loader.Find(got.ID)
		assert.True(t, ok)
		assert.Equal(t, got.Camp, found)
	})

	t.Run("invalid draft", func(t *testing.T) {
		body := []byte(`{"org": "Studio", "location": "Da-an", "price": -1, "category": "All", "weeks": [4]}`)
		rec := env.do(http.MethodPost, "/v1/camps", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Equal(t, "this field is required", fields["title"])
		assert.Contains(t, fields, "price")
		assert.Contains(t, fields, "category")
		assert.Contains(t, fields, "weeks[0]")
	})

	t.Run("store failure", func(t *testing.T) {
		before := env.loader.Snapshot()
		env.db.Fail(errors.New("connection refused"))
		defer env.db.Fail(nil)

		body := []byte(`{"title": "Art", "org": "Studio", "location": "Da-an", "price": 2500}`)
		rec := env.do(http.MethodPost, "/v1/camps", body)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusServiceUnavailable,
			wantData: marchallObj(t, httpErr{Error: "connection refused"}),
		}, rec)
		assert.Equal(t, before, env.loader.Snapshot())
	})
}

func Test_campApi_destroy(t *testing.T) {
	env := setup(t)
	testutil.CreateCamp(t, env.campRepo, "swim", "Swim", camp.CategorySport, 3000)
	env.reload(t)

	rec := env.do(http.MethodDelete, "/v1/camps/swim")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, found := env.loader.Find("swim")
	assert.False(t, found)

	rec = env.do(http.MethodGet, "/v1/camps/swim")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/v1/camps/swim")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
