package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/phonetext/internal/maryxml"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "phonetext.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("marytts", "en_US", "hello")
	assert.Len(t, a, 64)
	assert.Equal(t, a, CacheKey("marytts", "en_US", "hello"))
	assert.NotEqual(t, a, CacheKey("marytts", "de", "hello"))
	assert.NotEqual(t, a, CacheKey("openai", "en_US", "hello"))
	// Part boundaries are significant.
	assert.NotEqual(t, CacheKey("ab", "c", ""), CacheKey("a", "bc", ""))
}

func TestResponseCache(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := CacheKey("marytts", "en_US", "The cat sat.")

	_, ok, err := s.GetResponse(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	markup := `<maryxml><p><s><t ph="k { t">cat</t></s></p></maryxml>` + strings.Repeat("\n", 1000)
	require.NoError(t, s.PutResponse(ctx, key, "marytts", "en_US", markup))

	got, ok, err := s.GetResponse(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, markup, got)

	require.NoError(t, s.PutResponse(ctx, key, "marytts", "en_US", "<maryxml/>"))
	got, _, err = s.GetResponse(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<maryxml/>", got)
}

func TestDictionaryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dict := maryxml.NewDictionary()
	require.NoError(t, dict.Add("the", "ð ə"))
	require.NoError(t, dict.Add("cat", "k æ t"))

	require.NoError(t, s.SaveDictionary(ctx, "en_US", "run-1", dict, nil))
	// Saving the same entries again is a no-op.
	require.NoError(t, s.SaveDictionary(ctx, "en_US", "run-2", dict, nil))

	loaded, err := s.LoadDictionary(ctx, "en_US")
	require.NoError(t, err)
	assert.Equal(t, dict.Entries(), loaded.Entries())

	other, err := s.LoadDictionary(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Len())
}

func TestSaveDictionaryConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := maryxml.NewDictionary()
	require.NoError(t, first.Add("read", "r iː d"))
	require.NoError(t, s.SaveDictionary(ctx, "en_US", "run-1", first, nil))

	second := maryxml.NewDictionary()
	require.NoError(t, second.Add("book", "b ʊ k"))
	require.NoError(t, second.Add("read", "r ɛ d"))

	err := s.SaveDictionary(ctx, "en_US", "run-2", second, nil)
	require.ErrorIs(t, err, maryxml.ErrInconsistentPronunciation)

	loaded, err := s.LoadDictionary(ctx, "en_US")
	require.NoError(t, err)
	assert.Equal(t, []maryxml.Entry{{Word: "read", Pronunciation: "r iː d"}}, loaded.Entries(),
		"a conflicting save must not write any entry")

	// The same word may differ between locales.
	require.NoError(t, s.SaveDictionary(ctx, "de", "run-3", second, nil))
}

func TestSaveDictionaryBeforeCommit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dict := maryxml.NewDictionary()
	require.NoError(t, dict.Add("cat", "k æ t"))

	t.Run("error rolls back", func(t *testing.T) {
		err := s.SaveDictionary(ctx, "en_US", "run-1", dict, func() error {
			return errors.New("disk full")
		})
		require.EqualError(t, err, "disk full")

		loaded, err := s.LoadDictionary(ctx, "en_US")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})

	t.Run("success commits", func(t *testing.T) {
		called := false
		require.NoError(t, s.SaveDictionary(ctx, "en_US", "run-2", dict, func() error {
			called = true
			return nil
		}))
		assert.True(t, called)

		loaded, err := s.LoadDictionary(ctx, "en_US")
		require.NoError(t, err)
		assert.Equal(t, dict.Entries(), loaded.Entries())
	})

	t.Run("not called on conflict", func(t *testing.T) {
		conflicting := maryxml.NewDictionary()
		require.NoError(t, conflicting.Add("cat", "k a t"))

		called := false
		err := s.SaveDictionary(ctx, "en_US", "run-3", conflicting, func() error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, maryxml.ErrInconsistentPronunciation)
		assert.False(t, called)
	})
}
