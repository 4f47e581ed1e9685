package rewrite_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
)

// assertCode compares multi-line rewriting output and prints a unified diff
// on mismatch, which reads far better than a single escaped string.
func assertCode(t *testing.T, expect, actual string) {
	t.Helper()
	if expect == actual {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expect),
		B:        difflib.SplitLines(actual),
		FromFile: "expect",
		ToFile:   "actual",
		Context:  3,
	})
	assert.NoError(t, err)
	t.Errorf("rewritten code mismatch:\n%s", diff)
}
