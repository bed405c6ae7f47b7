// Package notify holds the queue of transient notifications shown to the
// user. Entries live until they are dismissed; there is no timeout here.
package notify

import (
	"strings"
	"sync"
	"unicode"

	"github.com/rs/xid"

	vberrors "stackit.dev/vbranch/internal/errors"
)

// Style selects how a notification is rendered
type Style string

const (
	StyleNeutral Style = "neutral"
	StyleError   Style = "error"
	StyleSuccess Style = "success"
)

// Notification is one entry of the queue
type Notification struct {
	ID      string
	Title   string
	Message string
	Error   string
	Style   Style
}

// Queue is an ordered, observable collection of notifications. It is safe
// for concurrent use.
type Queue struct {
	mu      sync.Mutex
	items   []Notification
	subs    map[int]chan []Notification
	nextSub int
	closed  bool
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{subs: make(map[int]chan []Notification)}
}

// Show adds n to the end of the queue and returns its id. Leading
// whitespace is stripped from every line of the message. When n.ID is set,
// entries already using that id are replaced.
func (q *Queue) Show(n Notification) string {
	n.Message = stripLeadingWhitespace(n.Message)
	if n.ID == "" {
		n.ID = xid.New().String()
	}

	q.update(func(items []Notification) []Notification {
		out := items[:0:0]
		for _, item := range items {
			if item.ID != n.ID {
				out = append(out, item)
			}
		}
		return append(out, n)
	})
	return n.ID
}

// ShowError shows err as an error notification. A nil error, or one carrying
// the transient disconnect signature, is dropped and ok is false.
func (q *Queue) ShowError(title string, err error) (id string, ok bool) {
	if err == nil || vberrors.IsTransientDisconnect(err) {
		return "", false
	}
	return q.Show(Notification{Title: title, Error: err.Error(), Style: StyleError}), true
}

// ShowInfo shows a neutral notification
func (q *Queue) ShowInfo(title, message string) string {
	return q.Show(Notification{Title: title, Message: message, Style: StyleNeutral})
}

// ShowSuccess shows a success notification
func (q *Queue) ShowSuccess(title string) string {
	return q.Show(Notification{Title: title, Style: StyleSuccess})
}

// Dismiss removes the notification with the given id. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	if id == "" {
		return
	}
	q.update(func(items []Notification) []Notification {
		out := items[:0:0]
		for _, item := range items {
			if item.ID != id {
				out = append(out, item)
			}
		}
		return out
	})
}

// Items returns a snapshot of the queue in insertion order
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notification(nil), q.items...)
}

// Subscribe returns a channel receiving the current snapshot and then a new
// snapshot after every change. A slow reader only misses intermediate
// snapshots, never the latest. Call cancel to stop receiving.
func (q *Queue) Subscribe() (<-chan []Notification, func()) {
	ch := make(chan []Notification, 1)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		close(ch)
		return ch, func() {}
	}

	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch
	ch <- append([]Notification(nil), q.items...)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			if sub, ok := q.subs[id]; ok {
				delete(q.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription. Show and Dismiss keep working on a closed
// queue but nobody is notified.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for id, ch := range q.subs {
		close(ch)
		delete(q.subs, id)
	}
}

// update applies fn to the items and publishes the result atomically
func (q *Queue) update(fn func([]Notification) []Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = fn(q.items)
	for _, ch := range q.subs {
		snapshot := append([]Notification(nil), q.items...)
		// replace any unread snapshot with the latest one
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func stripLeadingWhitespace(message string) string {
	if message == "" {
		return message
	}
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeftFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}
