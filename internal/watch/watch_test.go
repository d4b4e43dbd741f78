package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildCoalescesWhileInFlight(t *testing.T) {
	var builds atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	trigger, err := NewTrigger(func(context.Context) {
		if builds.Add(1) == 1 {
			once.Do(func() { close(started) })
			<-release
		}
	}, t.TempDir())
	require.NoError(t, err)
	defer trigger.Stop()

	trigger.Rebuild()
	<-started

	// Three triggers during the in-flight build coalesce to one follow-up.
	trigger.Rebuild()
	trigger.Rebuild()
	trigger.Rebuild()
	close(release)

	assert.Eventually(t, trigger.Idle, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), builds.Load())
}

func TestRebuildRunsAgainAfterIdle(t *testing.T) {
	var builds atomic.Int32
	trigger, err := NewTrigger(func(context.Context) {
		builds.Add(1)
	}, t.TempDir())
	require.NoError(t, err)
	defer trigger.Stop()

	trigger.Rebuild()
	assert.Eventually(t, trigger.Idle, time.Second, 5*time.Millisecond)

	trigger.Rebuild()
	assert.Eventually(t, trigger.Idle, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), builds.Load())
}

func TestRebuildConcurrentWithStart(t *testing.T) {
	var builds atomic.Int32
	trigger, err := NewTrigger(func(context.Context) {
		builds.Add(1)
	}, t.TempDir())
	require.NoError(t, err)
	defer trigger.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		trigger.Start(context.Background())
	}()
	go func() {
		defer wg.Done()
		trigger.Rebuild()
	}()
	wg.Wait()

	assert.Eventually(t, trigger.Idle, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())
}

func TestExcludedPaths(t *testing.T) {
	output := t.TempDir()
	trigger, err := NewTrigger(func(context.Context) {}, output)
	require.NoError(t, err)
	defer trigger.Stop()

	assert.True(t, trigger.excluded(output))
	assert.True(t, trigger.excluded(filepath.Join(output, "content", "page.json")))
	assert.False(t, trigger.excluded(filepath.Join(output, "..", "source.md")))
}

func TestFileChangeTriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "_build")
	require.NoError(t, os.MkdirAll(output, 0o755))
	page := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(page, []byte("# A\n"), 0o644))

	var builds atomic.Int32
	trigger, err := NewTrigger(func(context.Context) {
		builds.Add(1)
	}, output)
	require.NoError(t, err)
	defer trigger.Stop()

	require.NoError(t, trigger.AddRecursive(dir))
	trigger.Start(context.Background())

	require.NoError(t, os.WriteFile(page, []byte("# B\n"), 0o644))

	assert.Eventually(t, func() bool {
		return builds.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOutputChangeIgnored(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "_build")
	require.NoError(t, os.MkdirAll(output, 0o755))

	var builds atomic.Int32
	trigger, err := NewTrigger(func(context.Context) {
		builds.Add(1)
	}, output)
	require.NoError(t, err)
	defer trigger.Stop()

	require.NoError(t, trigger.AddRecursive(dir))
	trigger.Start(context.Background())

	// Writes under the excluded output path never schedule a rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(output, "page.json"), []byte("{}"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, builds.Load())

	// A sibling whose name merely shares the output prefix still triggers.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_build.md"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return builds.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
