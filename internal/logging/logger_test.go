package logging

import (
	"testing"

	"github.com/matryer/is"
)

func TestNew(t *testing.T) {
	is := is.New(t)
	l, err := New(2)
	is.NoErr(err)
	is.True(l.V(2).Enabled())
	is.True(!l.V(3).Enabled())

	l, err = New(0)
	is.NoErr(err)
	is.True(l.Enabled())
	is.True(!l.V(1).Enabled())
}

func TestNewNop(t *testing.T) {
	is := is.New(t)
	l := NewNop()
	is.True(!l.Enabled())
	l.Info("dropped")
}
