package blog

import "sync"

// Kind identifies a user-facing notification.
type Kind string

const (
	FetchFailed  Kind = "fetch_failed"
	Created      Kind = "created"
	CreateFailed Kind = "create_failed"
	Updated      Kind = "updated"
	UpdateFailed Kind = "update_failed"
	Deleted      Kind = "deleted"
	DeleteFailed Kind = "delete_failed"
)

var messages = map[Kind]string{
	FetchFailed:  "Failed to fetch blogs",
	Created:      "Blog created successfully",
	CreateFailed: "Failed to create blog",
	Updated:      "Blog updated successfully",
	UpdateFailed: "Failed to update blog",
	Deleted:      "Blog deleted successfully",
	DeleteFailed: "Failed to delete blog",
}

// Message is the text shown to the user.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return string(k)
}

func (k Kind) Failed() bool {
	switch k {
	case FetchFailed, CreateFailed, UpdateFailed, DeleteFailed:
		return true
	}
	return false
}

// ParseKind maps a stored kind back to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := messages[k]
	return k, ok
}

type Notification struct {
	Kind Kind
	// Err is the underlying failure, nil for success kinds. It is never shown to the user.
	Err error
}

func (n Notification) Message() string {
	return n.Kind.Message()
}

// Notifier receives fire-and-forget notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Inbox queues notifications until Drain is called.
type Inbox struct {
	mu      sync.Mutex
	pending []Notification
}

func (i *Inbox) Notify(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending = append(i.pending, n)
}

// Drain returns the queued notifications in order and empties the inbox.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.pending
	i.pending = nil
	return out
}
