package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/campweek/apps/api/echo"
	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/catalog"
	"github.com/trezcool/campweek/core/schedule"
	"github.com/trezcool/campweek/storage/database/dummy"
	"github.com/trezcool/campweek/tests"
)

type testEnv struct {
	app      *Server
	db       *dummydb.DB
	campRepo camp.Repository
	loader   *catalog.Loader
	sessions *schedule.Sessions
}

func setup(t *testing.T) *testEnv {
	conf := &core.Config{
		Env:      "TEST",
		AppName:  "Camp Week Planner",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
	}
	logger := testutil.NewLogger()

	// set up DB & repos
	db, err := dummydb.Open()
	require.NoError(t, err)
	campRepo := dummydb.NewCampRepository(db)
	schedRepo := dummydb.NewScheduleRepository(db)

	// set up services
	campSvc := camp.NewService(campRepo)
	loader := catalog.NewLoader(campSvc, logger)
	sessions := schedule.NewSessions(conf.Session.TTL)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	camp.InitValidators(validate, translator)

	// set up server
	app := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Loader:      loader,
		CampSvc:     campSvc,
		ScheduleSvc: schedule.NewService(schedRepo),
		Sessions:    sessions,
		Validate:    validate,
		Translator:  translator,
	})

	return &testEnv{app: app, db: db, campRepo: campRepo, loader: loader, sessions: sessions}
}

// reload loads the catalog the way the change feed would after a store change.
func (env *testEnv) reload(t *testing.T) {
	require.NoError(t, env.loader.Reload(context.Background()))
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (env *testEnv) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
