package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

var tokenKeys = []string{common.AccessTokenKey, common.RefreshTokenKey}

// Tokens is the input to StoreTokens. An empty field clears that key from
// both tiers. Tier left unset means "wherever the pair lives now".
type Tokens struct {
	AccessToken  string
	RefreshToken string
	Tier         Tier
}

// Manager is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	durable Store
	session Store
	log     logging.Logger
}

func NewManager(durable, session Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{durable: durable, session: session, log: log}
}

// AccessToken returns the stored access token, durable tier first.
func (m *Manager) AccessToken(ctx context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(ctx, common.AccessTokenKey)
}

// RefreshToken returns the stored refresh token, durable tier first.
func (m *Manager) RefreshToken(ctx context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(ctx, common.RefreshTokenKey)
}

// Persistence reports the tier currently holding the pair. With no tokens
// stored it answers TierDurable when that tier is available.
func (m *Manager) Persistence(ctx context.Context) Tier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persistence(ctx)
}

func (m *Manager) persistence(ctx context.Context) Tier {
	if m.holdsAny(ctx, m.durable, TierDurable) {
		return TierDurable
	}
	if m.holdsAny(ctx, m.session, TierSession) {
		return TierSession
	}
	if m.durable == nil && m.session != nil {
		return TierSession
	}
	return TierDurable
}

// StoreTokens writes t into its tier and removes both keys from the other
// tier first, so no reader ever finds the pair in two places.
func (m *Manager) StoreTokens(ctx context.Context, t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tier := t.Tier
	if tier == TierUnset {
		tier = m.persistence(ctx)
	}

	target, other := m.durable, m.session
	if tier == TierSession {
		target, other = m.session, m.durable
	}
	if target == nil {
		return fmt.Errorf("store tokens in %s tier: %w", tier, common.ErrTierUnavailable)
	}

	set := make(map[string]string, 2)
	var del []string
	for _, slot := range []struct{ key, value string }{
		{common.AccessTokenKey, t.AccessToken},
		{common.RefreshTokenKey, t.RefreshToken},
	} {
		if slot.value == "" {
			del = append(del, slot.key)
			continue
		}
		set[slot.key] = slot.value
	}

	if other != nil {
		if err := apply(ctx, other, nil, tokenKeys); err != nil {
			return fmt.Errorf("clear other tier: %w", err)
		}
	}
	if err := apply(ctx, target, set, del); err != nil {
		return fmt.Errorf("write %s tier: %w", tier, err)
	}

	m.log.Debug(ctx, "tokens stored", "tier", tier, "access", t.AccessToken != "", "refresh", t.RefreshToken != "")
	return nil
}

// Clear removes both keys from both tiers. Tiers already known to be empty
// are not written, so clearing an empty session produces no change events.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, s := range []Store{m.durable, m.session} {
		if s == nil || knownEmpty(ctx, s) {
			continue
		}
		if err := apply(ctx, s, nil, tokenKeys); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}

	m.log.Debug(ctx, "tokens cleared")
	return nil
}

// RoleFromToken extracts the role claim from token without verifying it.
// Undecodable tokens are logged and reported as having no role.
func (m *Manager) RoleFromToken(ctx context.Context, token string) (string, bool) {
	c, err := ParseClaims(token)
	if err != nil {
		m.log.Warn(ctx, "failed to decode access token", "error", err)
		return "", false
	}
	if c.Role == "" {
		return "", false
	}
	return c.Role, true
}

// Subscribe merges change notifications from every tier that can produce
// them. The channel is closed once ctx is done and all tiers have stopped.
func (m *Manager) Subscribe(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	var wg sync.WaitGroup
	for _, tier := range m.tiers() {
		n, ok := tier.store.(Notifier)
		if !ok {
			continue
		}
		ch, err := n.Subscribe(ctx)
		if err != nil {
			m.log.Warn(ctx, "tier change notifications unavailable", "tier", tier.name, "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for range ch {
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}()
	}

	go func() {
		<-ctx.Done()
		wg.Wait()
		close(out)
	}()

	return out
}

type namedStore struct {
	name  Tier
	store Store
}

// tiers lists the stores in read order.
func (m *Manager) tiers() []namedStore {
	return []namedStore{{TierDurable, m.durable}, {TierSession, m.session}}
}

func (m *Manager) lookup(ctx context.Context, key string) (string, bool) {
	for _, tier := range m.tiers() {
		if tier.store == nil {
			continue
		}
		v, err := tier.store.Get(ctx, key)
		if err != nil {
			m.log.Warn(ctx, "token read failed", "tier", tier.name, "key", key, "error", err)
			continue
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

func (m *Manager) holdsAny(ctx context.Context, s Store, name Tier) bool {
	if s == nil {
		return false
	}
	for _, key := range tokenKeys {
		v, err := s.Get(ctx, key)
		if err != nil {
			m.log.Warn(ctx, "token read failed", "tier", name, "key", key, "error", err)
			continue
		}
		if v != "" {
			return true
		}
	}
	return false
}

// knownEmpty reports whether s was read successfully and holds neither key.
func knownEmpty(ctx context.Context, s Store) bool {
	for _, key := range tokenKeys {
		v, err := s.Get(ctx, key)
		if err != nil || v != "" {
			return false
		}
	}
	return true
}

func apply(ctx context.Context, s Store, set map[string]string, del []string) error {
	if b, ok := s.(Batcher); ok {
		return b.Apply(ctx, set, del)
	}
	for k, v := range set {
		if err := s.Set(ctx, k, v); err != nil {
			return err
		}
	}
	for _, k := range del {
		if err := s.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
