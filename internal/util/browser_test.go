package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserCommands(t *testing.T) {
	t.Parallel()

	const url = "http://localhost:20262"

	win := browserCommands("windows", url)
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler", url}, win[0])
	assert.Equal(t, []string{"explorer", url}, win[1])

	assert.Equal(t, [][]string{{"open", url}}, browserCommands("darwin", url))

	linux := browserCommands("linux", url)
	assert.Equal(t, "xdg-open", linux[0][0])
	assert.Len(t, linux, 5)
}

func TestOpenWith_FallsBack(t *testing.T) {
	t.Parallel()

	var tried []string
	err := openWith([][]string{{"a", "u"}, {"b", "u"}}, func(name string, args ...string) error {
		tried = append(tried, name)
		if name == "a" {
			return errors.New("not found")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tried)

	err = openWith([][]string{{"a", "u"}}, func(string, ...string) error { return errors.New("nope") })
	assert.ErrorIs(t, err, ErrNoBrowser)
}
