package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is the user-facing message produced by a store mutation.
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
	ProjectID   string              `json:"project_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Notifier receives notifications emitted by the stores.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotificationFeed logs notifications and keeps the most recent ones for polling clients.
type NotificationFeed struct {
	mu     sync.RWMutex
	items  []Notification
	limit  int
	logger *zap.Logger
}

// NewNotificationFeed creates a feed holding at most limit notifications.
func NewNotificationFeed(limit int, logger *zap.Logger) *NotificationFeed {
	if limit <= 0 {
		limit = 1
	}
	return &NotificationFeed{
		limit:  limit,
		logger: logger,
	}
}

func (f *NotificationFeed) Notify(_ context.Context, n Notification) {
	if n.Variant == "" {
		n.Variant = NotificationDefault
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	f.logger.Info("notification",
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
		zap.String("project_id", n.ProjectID))

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// Recent returns up to n notifications, newest first.
func (f *NotificationFeed) Recent(n int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.items) {
		n = len(f.items)
	}
	out := make([]Notification, 0, n)
	for i := len(f.items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.items[i])
	}
	return out
}
