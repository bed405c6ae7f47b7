package notify

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	vberrors "stackit.dev/vbranch/internal/errors"
)

func TestQueue_Show(t *testing.T) {
	t.Parallel()

	t.Run("assigns distinct ids and keeps insertion order", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		first := q.ShowInfo("one", "")
		second := q.ShowInfo("two", "")
		require.NotEmpty(t, first)
		require.NotEqual(t, first, second)

		items := q.Items()
		require.Len(t, items, 2)
		require.Equal(t, "one", items[0].Title)
		require.Equal(t, "two", items[1].Title)
	})

	t.Run("strips leading whitespace from each message line", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		q.ShowInfo("title", "  first\n\t  second\nthird  ")
		require.Equal(t, "first\nsecond\nthird  ", q.Items()[0].Message)
	})

	t.Run("explicit id replaces the previous entry", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		q.Show(Notification{Title: "a"})
		id := q.Show(Notification{ID: "sync", Title: "first sync"})
		q.Show(Notification{Title: "b"})
		again := q.Show(Notification{ID: "sync", Title: "second sync"})
		require.Equal(t, "sync", id)
		require.Equal(t, "sync", again)

		items := q.Items()
		require.Len(t, items, 3)
		require.Equal(t, "a", items[0].Title)
		require.Equal(t, "b", items[1].Title)
		require.Equal(t, "second sync", items[2].Title)
		require.Equal(t, "sync", items[2].ID)
	})
}

func TestQueue_ShowError(t *testing.T) {
	t.Parallel()

	t.Run("shows the error message", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		id, ok := q.ShowError("There was a problem", &vberrors.MutationError{Message: "disk full"})
		require.True(t, ok)

		items := q.Items()
		require.Len(t, items, 1)
		require.Equal(t, id, items[0].ID)
		require.Equal(t, "disk full", items[0].Error)
		require.Equal(t, StyleError, items[0].Style)
	})

	t.Run("plain errors use their text", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		_, ok := q.ShowError("oops", errors.New("boom"))
		require.True(t, ok)
		require.Equal(t, "boom", q.Items()[0].Error)
	})

	t.Run("transient disconnect is swallowed", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		err := fmt.Errorf("request: %w", &vberrors.MutationError{Status: 500, Message: "Load failed"})
		id, ok := q.ShowError("oops", err)
		require.False(t, ok)
		require.Empty(t, id)
		require.Empty(t, q.Items())
	})

	// A nil error stands in for a value that is not an error at all; it is
	// dropped rather than displayed.
	t.Run("nil error is swallowed", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		_, ok := q.ShowError("oops", nil)
		require.False(t, ok)
		require.Empty(t, q.Items())
	})
}

func TestQueue_Dismiss(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	keep := q.ShowInfo("keep", "")
	drop := q.ShowInfo("drop", "")

	q.Dismiss(drop)
	q.Dismiss(drop)
	q.Dismiss("")
	q.Dismiss("unknown")

	items := q.Items()
	require.Len(t, items, 1)
	require.Equal(t, keep, items[0].ID)
}

func TestQueue_Subscribe(t *testing.T) {
	t.Parallel()

	receive := func(t *testing.T, ch <-chan []Notification) []Notification {
		t.Helper()
		select {
		case items, ok := <-ch:
			require.True(t, ok, "subscription closed unexpectedly")
			return items
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for snapshot")
			return nil
		}
	}

	t.Run("delivers the current snapshot immediately", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()
		q.ShowInfo("existing", "")

		ch, cancel := q.Subscribe()
		defer cancel()

		require.Len(t, receive(t, ch), 1)
	})

	t.Run("slow readers only see the latest snapshot", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()
		ch, cancel := q.Subscribe()
		defer cancel()

		q.ShowInfo("one", "")
		q.ShowInfo("two", "")
		q.ShowInfo("three", "")

		items := receive(t, ch)
		require.Len(t, items, 3)
		require.Equal(t, "three", items[2].Title)
	})

	t.Run("cancel and close end the subscription", func(t *testing.T) {
		t.Parallel()
		q := NewQueue()

		ch, cancel := q.Subscribe()
		cancel()
		cancel()
		for range ch {
		}
		_, ok := <-ch
		require.False(t, ok)

		other, _ := q.Subscribe()
		q.Close()
		require.NotPanics(t, func() { q.ShowInfo("after close", "") })
		for range other {
		}

		late, _ := q.Subscribe()
		_, ok = <-late
		require.False(t, ok)
	})
}

func TestQueue_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := q.ShowInfo("working", "")
			q.Show(Notification{ID: "shared", Title: "replace"})
			q.Dismiss(id)
		}()
	}
	wg.Wait()

	items := q.Items()
	require.Len(t, items, 1)
	require.Equal(t, "shared", items[0].ID)
}
