package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "export:F001:csv", &dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "export:F001:csv", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "export:*"))
	assert.Error(t, repo.Ping(ctx))
}

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	assert.Equal(t, "locator:export:F001:csv", repo.key("export:F001:csv"))

	staging := repo.WithNamespace("staging:")
	assert.Equal(t, "staging:export:*", staging.key("export:*"))
	assert.Equal(t, "locator:export:*", repo.key("export:*"))
}
