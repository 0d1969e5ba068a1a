package errorsx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Unwrap(t *testing.T) {
	var (
		ErrA = errors.New("A")
		ErrB = errors.New("B")
		err  = CollectErrors().Add(ErrA).Add(nil).Add(ErrB).Result()
		as   = new(Collector)
	)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrA)
	assert.ErrorIs(t, err, ErrB)
	assert.ErrorAs(t, err, &as)
	assert.Equal(t, 2, as.Len())
	assert.Equal(t, ErrA, as.First())
}

func TestCollector_Error(t *testing.T) {
	err := CollectErrors(" ").Add(errors.New("A")).Add(errors.New("B")).AddString("C").Result()
	require.NotNil(t, err)
	assert.Equal(t, "A B C", err.Error())
	assert.Nil(t, CollectErrors().Result(), "Empty collector should not be an error")
	assert.Nil(t, CollectErrors().First())
}

func TestHandler(t *testing.T) {
	base := errors.New("boom")
	assert.Nil(t, Handler("boot", "scene", nil))

	err := Handler("boot", "scene", base)
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "boot", herr.Op)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boot failed in scene: boom", err.Error())

	again := Handler("module.Run", "other", err)
	assert.Same(t, err, again, "Should not wrap a handler error twice")
}

func TestSentinels(t *testing.T) {
	assert.ErrorIs(t, InvalidOperation("already %s", "shutdown"), ErrInvalidOperation)
	assert.ErrorIs(t, Argument("not modal: %T", 5), ErrArgument)
	assert.NotErrorIs(t, Argument("x"), ErrInvalidOperation)
}

func TestCall_Panic(t *testing.T) {
	err := Call("op", func() error {
		panic("bad state")
	})
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "op", perr.Op)
	assert.Equal(t, "bad state", perr.Value)
	assert.NotEmpty(t, perr.Stack)

	cause := errors.New("cause")
	err = Call("op", func() error {
		panic(cause)
	})
	assert.ErrorIs(t, err, cause, "Panicking with an error should unwrap to it")

	assert.NoError(t, Call("op", func() error { return nil }))
}
