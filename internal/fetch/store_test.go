package fetch_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/grader/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shaOf(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestPutGetRoundtrip(t *testing.T) {
	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	sha, err := store.Put([]byte("x + 1"))
	require.NoError(t, err)
	assert.Equal(t, shaOf("x + 1"), sha)
	assert.True(t, store.Has(sha))

	data, err := store.Get(sha)
	require.NoError(t, err)
	assert.Equal(t, "x + 1", string(data))

	// idempotent
	again, err := store.Put([]byte("x + 1"))
	require.NoError(t, err)
	assert.Equal(t, sha, again)
}

func TestGetMissingBlob(t *testing.T) {
	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(shaOf("never stored"))
	var nf *fetch.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	const content = "196674008\n"
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(content))
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	sha := shaOf(content)
	path, err := store.Fetch(context.Background(), sha, srv.URL+"/blob")
	require.NoError(t, err)
	assert.Equal(t, store.Path(sha), path)

	data, err := store.Get(sha)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	// second fetch must hit the store, not the server
	_, err = store.Fetch(context.Background(), sha, srv.URL+"/blob")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchIntegrityMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered"))
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	declared := shaOf("original")
	_, err = store.Fetch(context.Background(), declared, srv.URL+"/blob")
	var integ *fetch.IntegrityError
	require.ErrorAs(t, err, &integ)
	assert.Equal(t, declared, integ.Want)
	assert.False(t, store.Has(declared))
}

func TestFetchZstdCompressed(t *testing.T) {
	const content = "315941512 -119267504\n"
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(content), nil)
	require.NoError(t, enc.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(compressed)
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	sha := shaOf(content)
	_, err = store.Fetch(context.Background(), sha, srv.URL+"/blob.zst")
	require.NoError(t, err)

	data, err := store.Get(sha)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestFetchWithoutDeclaredSha(t *testing.T) {
	const content = "anonymous blob"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	path, err := store.Fetch(context.Background(), "", srv.URL+"/blob")
	require.NoError(t, err)
	assert.Equal(t, store.Path(shaOf(content)), path)
}

func TestFetchNoUrlAndNotStored(t *testing.T) {
	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), shaOf("ghost"), "")
	var nf *fetch.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestPrefetch(t *testing.T) {
	contents := []string{"alpha", "beta", "gamma"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Write([]byte(contents[0]))
		case "/b":
			w.Write([]byte(contents[1]))
		default:
			w.Write([]byte(contents[2]))
		}
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	refs := []fetch.Ref{
		{Sha256: shaOf("alpha"), Url: srv.URL + "/a"},
		{Sha256: shaOf("beta"), Url: srv.URL + "/b"},
		{Sha256: shaOf("gamma"), Url: srv.URL + "/c"},
		{Sha256: shaOf("alpha")}, // no url: resolved by the first ref's download
	}
	require.NoError(t, store.Prefetch(context.Background(), refs))

	for _, c := range contents {
		assert.True(t, store.Has(shaOf(c)), c)
	}
}

func TestPrefetchPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)

	err = store.Prefetch(context.Background(), []fetch.Ref{{Url: srv.URL + "/gone"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
