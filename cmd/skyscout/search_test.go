package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type mapGeocoder map[string][]model.CityCandidate

func (g mapGeocoder) Search(ctx context.Context, query string) ([]model.CityCandidate, error) {
	if query == "Atlantis" {
		return nil, errors.New("Search service is temporarily unavailable")
	}
	return g[query], nil
}

var paris = model.CityCandidate{Name: "Paris", Admin1: "Île-de-France", Country: "France", Latitude: 48.85341, Longitude: 2.3488}

type searchRun struct {
	pw    *io.PipeWriter
	out   *syncBuffer
	saved chan model.CityCandidate
	done  chan struct{}
	cand  *model.CityCandidate
	err   error
}

func startSearch(t *testing.T, initial string, saveErr error) *searchRun {
	t.Helper()
	geo := mapGeocoder{"Paris": {paris}, "Par": {paris, {Name: "Parma", Country: "Italy"}}}
	session := search.NewSession(geo, search.Options{Debounce: time.Millisecond, MinQueryLength: 2})
	t.Cleanup(session.Close)

	pr, pw := io.Pipe()
	r := &searchRun{pw: pw, out: &syncBuffer{}, saved: make(chan model.CityCandidate, 1), done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.cand, r.err = runSearch(context.Background(), pr, r.out, session, initial, func(c model.CityCandidate) error {
			r.saved <- c
			return saveErr
		}, false)
	}()
	t.Cleanup(func() { pw.Close() })
	return r
}

func (r *searchRun) send(t *testing.T, line string) {
	t.Helper()
	_, err := io.WriteString(r.pw, line+"\n")
	require.NoError(t, err)
}

func (r *searchRun) waitFor(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(r.out.String(), text) }, 2*time.Second, 5*time.Millisecond,
		"output %q lacks %q", r.out.String(), text)
}

func (r *searchRun) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not finish")
	}
}

func TestRunSearch_SelectSavesCity(t *testing.T) {
	r := startSearch(t, "", nil)

	r.send(t, "Par")
	r.waitFor(t, "2. Parma, Italy")
	r.send(t, "Paris")
	r.waitFor(t, "1. Paris, Île-de-France, France")

	r.send(t, ":1")
	r.wait(t)

	require.NoError(t, r.err)
	require.NotNil(t, r.cand)
	assert.Equal(t, paris, *r.cand)
	assert.Equal(t, paris, <-r.saved)
	assert.Contains(t, r.out.String(), "Saved Paris, Île-de-France, France")
}

func TestRunSearch_InitialQuery(t *testing.T) {
	r := startSearch(t, "Paris", nil)
	r.waitFor(t, "1. Paris")
	r.send(t, ":q")
	r.wait(t)

	assert.NoError(t, r.err)
	assert.Nil(t, r.cand)
}

func TestRunSearch_Commands(t *testing.T) {
	r := startSearch(t, "", nil)

	r.send(t, "P")
	r.send(t, ":r")
	r.waitFor(t, "Query too short")

	r.send(t, ":3")
	r.waitFor(t, "No result 3")

	r.send(t, ":x")
	r.waitFor(t, "Unknown command :x")

	r.send(t, "Zzyzx")
	r.waitFor(t, "No cities found")

	r.send(t, "Atlantis")
	r.waitFor(t, "⚠️  Search service is temporarily unavailable (:r to retry)")

	r.send(t, ":c")
	r.waitFor(t, "Cleared")

	r.pw.Close()
	r.wait(t)
	assert.NoError(t, r.err)
	assert.Nil(t, r.cand)
}

func TestRunSearch_SaveError(t *testing.T) {
	r := startSearch(t, "Paris", errors.New("disk full"))
	r.waitFor(t, "1. Paris")
	r.send(t, ":1")
	r.wait(t)

	assert.ErrorContains(t, r.err, "disk full")
	assert.Nil(t, r.cand)
}
