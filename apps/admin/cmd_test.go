package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io/fs"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/storage/database/dummy"
	"github.com/trezcool/campweek/tests"
)

var campRepo camp.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db, err := dummydb.Open()
	require.NoError(t, err)
	campRepo = dummydb.NewCampRepository(db)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	camp.InitValidators(validate, translator)

	// start CLI
	out := &bytes.Buffer{}
	return &commandLine{
		migrator:   &migrator{dir: "migrations"},
		campSvc:    camp.NewService(campRepo),
		validate:   validate,
		translator: translator,
		out:        out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func checkRunErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var ran []string
	record := func(name string) gooseFunc {
		return func(db *sql.DB, fsys fs.FS, dir string) error {
			ran = append(ran, name+" "+dir)
			return nil
		}
	}
	recordVersion := func(name string) gooseVersionFunc {
		return func(db *sql.DB, fsys fs.FS, dir string, version int64) error {
			ran = append(ran, name+" "+dir+" "+strconv.FormatInt(version, 10))
			return nil
		}
	}
	origFuncs, origVersionFuncs := gooseFuncs, gooseVersionFuncs
	defer func() { gooseFuncs, gooseVersionFuncs = origFuncs, origVersionFuncs }()
	gooseFuncs = map[string]gooseFunc{
		"up": record("up"), "up-by-one": record("up-by-one"), "down": record("down"), "redo": record("redo"),
	}
	gooseVersionFuncs = map[string]gooseVersionFunc{"up-to": recordVersion("up-to"), "down-to": recordVersion("down-to")}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: migrate up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: migrate down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, cli.run(args))
		})
	}
	assert.Equal(t, []string{
		"up migrations", "up-by-one migrations", "up-to migrations 2",
		"down migrations", "down-to migrations 1", "redo migrations",
	}, ran)
}

func Test_commandLine_addCamp(t *testing.T) {
	cli, out := setup(t)
	testutil.CreateCamp(t, campRepo, "swim", "Winter Swim Camp", camp.CategorySport, 3000)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addcamp"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"addcamp", "-lol", "x"}, wantErr: errHelp},
		{
			name:       "bad weeks",
			args:       []string{"addcamp", "-title", "Art", "-org", "O", "-location", "L", "-price", "100", "-weeks", "2,x"},
			wantErrStr: "week must be a number (got 'x')",
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, cli.run(args))
		})
	}

	t.Run("invalid camp", func(t *testing.T) {
		out.Reset()
		err := cli.run([]string{"admin", "addcamp", "-title", "Art", "-weeks", "4"})
		require.Error(t, err)
		_, ok := errors.Cause(err).(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Contains(t, out.String(), "org: this field is required")
		assert.Contains(t, out.String(), "price: this field is required")
	})

	t.Run("similar title", func(t *testing.T) {
		out.Reset()
		err := cli.run([]string{
			"admin", "addcamp", "-title", "Winter Swim Camps", "-org", "Blue", "-location", "Pool",
			"-price", "3200", "-category", "Sport", "-weeks", "2,3",
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `warning: "Winter Swim Camps" looks like existing camp "Winter Swim Camp"`)
		assert.Contains(t, out.String(), "camp custom-")

		camps, err := campRepo.QueryAllCamps(context.Background())
		require.NoError(t, err)
		require.Len(t, camps, 2)
		added := camps[1]
		assert.Equal(t, "Winter Swim Camps", added.Title)
		assert.Equal(t, "$3200", added.PriceLabel)
		assert.Equal(t, []camp.WeekID{camp.Week1, camp.Week2}, added.AvailableWeeks)
	})
}

func Test_commandLine_deleteCamp(t *testing.T) {
	cli, _ := setup(t)
	testutil.CreateCamp(t, campRepo, "swim", "Swim", camp.CategorySport, 3000)

	tests := []cliTest{
		{name: "no id", args: []string{"deletecamp"}, wantErr: errHelp},
		{name: "delete", args: []string{"deletecamp", "-id", "swim"}},
		{name: "unknown id", args: []string{"deletecamp", "-id", "swim"}, wantErrStr: "deleting camp: camp not found"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_listCamps(t *testing.T) {
	cli, out := setup(t)
	swim := testutil.CreateCamp(t, campRepo, "swim", "Swim", camp.CategorySport, 3000)
	testutil.CreateCamp(t, campRepo, "ride", "Ride", camp.CategoryHorse, 7500, camp.Week2)

	origIsTerminal := isTerminalFunc
	defer func() { isTerminalFunc = origIsTerminal }()

	t.Run("json lines", func(t *testing.T) {
		out.Reset()
		isTerminalFunc = func(fd int) bool { return false }
		require.NoError(t, cli.run([]string{"admin", "listcamps", "-category", "Sport"}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 1)
		var got camp.Camp
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
		assert.Equal(t, swim, got)
	})

	t.Run("table", func(t *testing.T) {
		out.Reset()
		isTerminalFunc = func(fd int) bool { return true }
		require.NoError(t, cli.run([]string{"admin", "listcamps"}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.True(t, strings.HasPrefix(lines[1], "ride"), lines[1])
		assert.Contains(t, lines[1], "$7,500")
		assert.True(t, strings.HasPrefix(lines[2], "swim"), lines[2])
	})
}
