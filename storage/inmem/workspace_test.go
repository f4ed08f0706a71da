package inmem

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/revisioncam/core/study"
	"github.com/trezcool/revisioncam/tests"
)

func TestWorkspaceRepository(t *testing.T) {
	repo := NewWorkspaceRepository(Open())

	err := repo.Update("missing", func(*study.Workspace) error { return nil })
	assert.Equal(t, study.ErrNotFound, err)
	assert.Equal(t, study.ErrNotFound, repo.Delete("missing"))

	ws := study.NewWorkspace("w1", "camcam", study.Options{}, testutil.Epoch)
	require.NoError(t, repo.Create(ws))
	require.NoError(t, repo.Create(study.NewWorkspace("w1", "intruder", study.Options{}, testutil.Epoch)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Update("w1", func(ws *study.Workspace) error {
				ws.UpdatedAt = ws.UpdatedAt.Add(time.Minute)
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, repo.Update("w1", func(ws *study.Workspace) error {
		assert.Equal(t, "camcam", ws.Owner, "create does not replace a workspace")
		assert.Equal(t, testutil.Epoch.Add(50*time.Minute), ws.UpdatedAt)
		return nil
	}))

	n, err := repo.DeleteIdle(testutil.Epoch.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, repo.Exists("w1"))
}

func TestWorkspaceRepository_DeleteIdle_busyRow(t *testing.T) {
	repo := NewWorkspaceRepository(Open())
	require.NoError(t, repo.Create(study.NewWorkspace("busy", "camcam", study.Options{}, testutil.Epoch)))
	require.NoError(t, repo.Create(study.NewWorkspace("w2", "camcam", study.Options{}, testutil.Epoch)))

	held, release := make(chan struct{}), make(chan struct{})
	go func() {
		_ = repo.Update("busy", func(ws *study.Workspace) error {
			close(held)
			<-release
			ws.UpdatedAt = testutil.Epoch.Add(2 * time.Hour)
			return nil
		})
	}()
	<-held

	purged := make(chan int)
	go func() {
		n, _ := repo.DeleteIdle(testutil.Epoch.Add(time.Hour))
		purged <- n
	}()

	// other sessions keep working while the purge waits for the busy row
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = repo.Update("w2", func(*study.Workspace) error { return nil })
		_ = repo.Create(study.NewWorkspace("w3", "camcam", study.Options{}, testutil.Epoch.Add(2*time.Hour)))
		_ = repo.Exists("w3")
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("a purge waiting on one row blocked the other sessions")
	}

	close(release)
	select {
	case n := <-purged:
		assert.Equal(t, 1, n)
	case <-time.After(5 * time.Second):
		t.Fatal("purge did not finish")
	}
	assert.True(t, repo.Exists("busy"))
	assert.False(t, repo.Exists("w2"))
	assert.True(t, repo.Exists("w3"))
}
