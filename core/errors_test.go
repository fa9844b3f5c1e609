package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	cause := errors.New(`duplicate key value violates unique constraint "camps_pkey"`)
	err := errors.Wrap(NewStoreError("insert camp", cause), "creating camp")

	assert.True(t, IsStoreError(err))
	assert.Equal(t, "creating camp: "+cause.Error(), err.Error())
	assert.True(t, errors.Is(err, cause))

	var sErr *StoreError
	assert.True(t, errors.As(err, &sErr))
	assert.Equal(t, "insert camp", sErr.Op)

	assert.NoError(t, NewStoreError("noop", nil))
	assert.False(t, IsStoreError(cause))
	assert.Equal(t, "load failed", StoreError{Op: "load"}.Error())
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity issue"), "handling")))
	assert.False(t, IsShutdown(errors.New("integrity issue")))
}

func TestDBOrderings(t *testing.T) {
	ords := DBOrderings{{Field: "category", Ascending: true}, {Field: "created_at"}}
	assert.Equal(t, "category ASC, created_at DESC", ords.String())
	assert.Equal(t, "", DBOrderings{}.String())
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Swim Camp", CleanString("  Swim Camp \n"))
	assert.Equal(t, "swim camp", CleanString(" Swim Camp ", true))
}
