package ioutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closer struct {
	called int
	err    error
}

func (c *closer) Close() error {
	c.called++
	return c.err
}

func TestCheckClose(t *testing.T) {
	c := &closer{}

	var err error
	CheckClose(c, &err)

	assert.NoError(t, err)
	assert.Equal(t, 1, c.called)
}

func TestCheckCloseError(t *testing.T) {
	closeErr := errors.New("close failed")
	c := &closer{err: closeErr}

	var err error
	CheckClose(c, &err)

	assert.Equal(t, closeErr, err)
}

func TestCheckCloseKeepsFirstError(t *testing.T) {
	firstErr := errors.New("read failed")
	c := &closer{err: errors.New("close failed")}

	err := firstErr
	CheckClose(c, &err)

	assert.Equal(t, firstErr, err)
	assert.Equal(t, 1, c.called)
}

func ExampleCheckClose() {
	// CheckClose is commonly used with named return values
	f := func() (err error) {
		c := &closer{}
		defer CheckClose(c, &err)
		return nil
	}

	_ = f()
	// Output:
}
