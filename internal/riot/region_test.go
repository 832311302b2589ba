package riot

import (
	"context"
	"errors"
	"testing"

	"rift-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRegion(t *testing.T) {
	platform, regional, err := MapRegion("euw")
	require.NoError(t, err)
	assert.Equal(t, "euw1", platform)
	assert.Equal(t, "europe", regional)

	platform, regional, err = MapRegion("NA1")
	require.NoError(t, err)
	assert.Equal(t, "na1", platform)
	assert.Equal(t, "americas", regional)

	platform, regional, err = MapRegion("kr")
	require.NoError(t, err)
	assert.Equal(t, "kr", platform)
	assert.Equal(t, "asia", regional)
}

func TestMapRegionUnsupported(t *testing.T) {
	_, _, err := MapRegion("moon")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegionUnsupported)
}

func TestVersionCellCachesFirstSuccess(t *testing.T) {
	var cell versionCell
	calls := 0

	fetch := func(context.Context) (string, error) {
		calls++
		return "15.1.1", nil
	}

	v, err := cell.get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "15.1.1", v)

	v, err = cell.get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "15.1.1", v)
	assert.Equal(t, 1, calls, "second call must hit the cache")
}

func TestVersionCellRetriesAfterFailure(t *testing.T) {
	var cell versionCell
	calls := 0

	_, err := cell.get(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", errors.New("gateway down")
	})
	require.Error(t, err)

	v, err := cell.get(context.Background(), func(context.Context) (string, error) {
		calls++
		return "15.1.1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "15.1.1", v)
	assert.Equal(t, 2, calls)
}
