package shell_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"bundrs/shell"
)

func TestWarnf(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New(&out)
	sh.Warnf("something odd in `%s`", "lib")
	assert.Contains(t, out.String(), "warning")
	assert.Contains(t, out.String(), "something odd in `lib`")
}

func TestStatusf(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New(&out)
	sh.Statusf("Bundling", "%s v%s", "mylib", "0.1.0")
	assert.Contains(t, out.String(), "Bundling")
	assert.Contains(t, out.String(), "mylib v0.1.0")
}

func TestNilShellDropsEverything(t *testing.T) {
	var sh *shell.Shell
	assert.NotPanics(t, func() {
		sh.Warnf("ignored")
		sh.Statusf("Verb", "ignored")
	})
}
