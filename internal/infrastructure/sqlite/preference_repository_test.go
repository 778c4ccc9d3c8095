package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mrreacto/reacto/internal/prefs"
)

func newRepo(t *testing.T) *preferenceRepository {
	t.Helper()
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newPreferenceRepository(db.conn)
}

func TestPreferenceRepository_GetMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), prefs.KeyLanguage)
	require.True(t, prefs.IsNotFound(err))
}

func TestPreferenceRepository_SetOverwrites(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Set(ctx, prefs.KeyLanguage, "fi"))

	now = now.Add(time.Hour)
	require.NoError(t, repo.Set(ctx, prefs.KeyLanguage, "en"))

	got, err := repo.Get(ctx, prefs.KeyLanguage)
	require.NoError(t, err)
	require.Equal(t, "en", got)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []prefs.Entry{{Key: prefs.KeyLanguage, Value: "en", UpdatedAt: now}}, entries)
}

func TestPreferenceRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, prefs.KeySessionParams, `{"duration":60}`))
	require.NoError(t, repo.Delete(ctx, prefs.KeySessionParams))
	require.NoError(t, repo.Delete(ctx, "never-set"))

	_, err := repo.Get(ctx, prefs.KeySessionParams)
	require.True(t, prefs.IsNotFound(err))
}

func TestPreferenceRepository_BehavesLikeMemoryRepository(t *testing.T) {
	repo := newRepo(t)

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		model := prefs.NewMemoryRepository()
		for _, e := range must(repo.List(ctx)) {
			_ = repo.Delete(ctx, e.Key)
		}

		keys := []string{prefs.KeyLanguage, prefs.KeySessionParams, "ui.theme"}
		ops := rapid.IntRange(1, 30).Draw(rt, "ops")
		for range ops {
			key := rapid.SampledFrom(keys).Draw(rt, "key")
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				value := rapid.StringMatching(`[a-z0-9{}":,]{0,20}`).Draw(rt, "value")
				if err := repo.Set(ctx, key, value); err != nil {
					rt.Fatalf("set: %v", err)
				}
				_ = model.Set(ctx, key, value)
			case 1:
				_ = repo.Delete(ctx, key)
				_ = model.Delete(ctx, key)
			case 2:
				got, err := repo.Get(ctx, key)
				want, wantErr := model.Get(ctx, key)
				if prefs.IsNotFound(err) != prefs.IsNotFound(wantErr) || got != want {
					rt.Fatalf("get %s: got (%q, %v) want (%q, %v)", key, got, err, want, wantErr)
				}
			}
		}
	})
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
