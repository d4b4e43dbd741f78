package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *SiteManifest {
	return &SiteManifest{
		ID:        "build-001",
		Title:     "Example Docs",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Projects: []ProjectManifest{
			{
				Slug:   "guide",
				Status: "success",
				Pages: []PageRecord{
					{Slug: "index", File: "index.md", ContentHash: "abc", Touched: true},
					{Slug: "intro", File: "intro.md", ContentHash: "def"},
				},
				Touched: 1,
				Total:   2,
			},
		},
		Status:     "success",
		DurationMS: 42,
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := sample()

	data, err := m.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, restored.ID)
	require.Len(t, restored.Projects, 1)
	assert.Equal(t, m.Projects[0].Pages, restored.Projects[0].Pages)
}

func TestManifestHashIgnoresVolatileFields(t *testing.T) {
	a := sample()
	b := sample()
	b.ID = "build-002"
	b.Timestamp = b.Timestamp.Add(time.Hour)
	b.DurationMS = 9999

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	b.Projects[0].Touched = 2
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
