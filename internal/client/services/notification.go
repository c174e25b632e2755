package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

const notificationsKey = "notifications"

type NotificationService interface {
	List(ctx context.Context, refresh bool) ([]api.Notification, error)
	Unread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id api.ID) error
	Reset()
}

type notificationService struct {
	api   NotificationAPI
	cache *listCache[api.Notification]
	log   logging.Logger
}

func NewNotificationService(client NotificationAPI, ttl time.Duration, log logging.Logger) NotificationService {
	if log == nil {
		log = logging.Discard()
	}
	return &notificationService{
		api:   client,
		cache: newListCache(ttl, func(n api.Notification) string { return n.ID.String() }),
		log:   log,
	}
}

func (s *notificationService) List(ctx context.Context, refresh bool) ([]api.Notification, error) {
	if !refresh {
		if list, ok := s.cache.get(notificationsKey); ok {
			return list, nil
		}
	}
	gen := s.cache.generation()
	list, err := s.api.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	s.cache.setSince(gen, notificationsKey, list)
	return list, nil
}

func (s *notificationService) Reset() {
	s.cache.reset()
}

func (s *notificationService) Unread(ctx context.Context) (int, error) {
	list, err := s.List(ctx, false)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range list {
		if !it.IsRead {
			n++
		}
	}
	return n, nil
}

// MarkRead flips the cached notification first and restores it if the
// API call fails.
func (s *notificationService) MarkRead(ctx context.Context, id api.ID) error {
	if id == "" {
		return fmt.Errorf("mark read: %w", errMissingID)
	}

	_, undo, _ := s.cache.patch(notificationsKey, id.String(), func(n *api.Notification) { n.IsRead = true })

	if _, err := s.api.MarkNotificationRead(ctx, id); err != nil {
		undo()
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}
