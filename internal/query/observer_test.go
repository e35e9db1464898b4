package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/query"
)

func TestObserverDiscardsResponseForAbandonedKey(t *testing.T) {
	c := newCache(t, query.Options{})
	obs := query.NewObserver[[]string](c)
	pending := query.NewKey(query.FamilyDrafts, "b1", "pending")
	rejected := query.NewKey(query.FamilyDrafts, "b1", "rejected")

	started := make(chan struct{})
	release := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		_, err := obs.Load(context.Background(), pending, func(context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"pending-draft"}, nil
		})
		errCh <- err
	}()

	<-started
	obs.Switch(rejected)
	close(release)
	require.ErrorIs(t, <-errCh, query.ErrSuperseded)

	key, ok := obs.Key()
	require.True(t, ok)
	assert.Equal(t, rejected, key)

	got, err := obs.Load(context.Background(), rejected, func(context.Context) ([]string, error) {
		return []string{"rejected-draft"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rejected-draft"}, got)
	assert.Equal(t, query.StatusSuccess, obs.State().Status)
}

func TestObserverIdleBeforeFirstLoad(t *testing.T) {
	obs := query.NewObserver[int](newCache(t, query.Options{}))
	_, ok := obs.Key()
	assert.False(t, ok)
	assert.Equal(t, query.StatusIdle, obs.State().Status)
}
