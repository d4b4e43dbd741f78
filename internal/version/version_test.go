package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionDefaults(t *testing.T) {
	// Until set by ldflags all fields carry the "unknown" placeholder.
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}

func TestStringOmitsUnknownCommit(t *testing.T) {
	assert.Equal(t, Version, String())

	old := GitCommit
	GitCommit = "abc1234"
	defer func() { GitCommit = old }()
	assert.Equal(t, Version+" (abc1234)", String())
}
