package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	s := String()
	assert.Contains(t, s, "tvmdbg version v1.2.3")
	assert.Contains(t, s, "Git commit: "+GitCommit)
	assert.Contains(t, s, "Go version: "+GoVersion)
}
