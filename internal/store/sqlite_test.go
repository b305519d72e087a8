package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noticeboard/internal/model"
	"github.com/nhle/noticeboard/internal/store"
	"github.com/nhle/noticeboard/internal/testutil"
)

func TestListNoticesEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)

	notices, err := s.ListNotices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notices)
	assert.Empty(t, notices)
}

func TestAppendThenListReturnsEveryRecordInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	in := []model.Notice{
		{ID: "1", Title: "A", Body: "b", Date: 1000},
		{ID: "2", Title: "B", Body: "c", Date: 2000},
		{ID: "1", Title: "A again", Body: "b", Date: 3000},
	}
	for _, n := range in {
		require.NoError(t, s.AppendNotice(ctx, n))
	}

	out, err := s.ListNotices(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	require.NoError(t, s.AppendNotice(ctx, model.Notice{ID: "1", Title: "A"}))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.EnsureSchema(ctx))
	}

	out, err := s.ListNotices(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Title)
}

func TestSchemaSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notices.db")

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.AppendNotice(ctx, model.Notice{ID: "42", Title: "X", Body: "Y", Date: 2000}))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(ctx))

	out, err := s.ListNotices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Notice{{ID: "42", Title: "X", Body: "Y", Date: 2000}}, out)
}

func TestAppendWithoutSchemaFails(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	err = s.AppendNotice(context.Background(), model.Notice{ID: "1"})
	assert.Error(t, err)
}

func TestOperationsFailAfterClose(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	require.NoError(t, s.Close())

	assert.Error(t, s.AppendNotice(ctx, model.Notice{ID: "1"}))
	_, err := s.ListNotices(ctx)
	assert.Error(t, err)
}
