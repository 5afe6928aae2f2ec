// authenticationhandler/tokenstore.go
package authenticationhandler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"golang.org/x/sync/singleflight"
)

const exchangeKey = "exchange"

// exchangeFunc performs one network exchange and returns the issued token.
type exchangeFunc func(ctx context.Context) (Token, error)

// tokenStore holds the live token. Reads take the read lock; every exchange goes through the
// singleflight group so concurrent callers needing a new token share one request.
type tokenStore struct {
	mu        sync.RWMutex
	token     *Token
	group     singleflight.Group
	threshold time.Duration
	now       func() time.Time
}

func (s *tokenStore) get() (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return Token{}, false
	}
	return *s.token, true
}

func (s *tokenStore) set(t Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &t
}

// clearIf drops the held token if it still carries value.
func (s *tokenStore) clearIf(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != nil && s.token.Value == value {
		s.token = nil
	}
}

// Reset forgets the held token.
func (s *tokenStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
}

// State reports NoToken, Valid or ExpiringSoon for the held token.
func (s *tokenStore) State() TokenState {
	t, ok := s.get()
	switch {
	case !ok:
		return StateNoToken
	case t.ValidAt(s.now(), s.threshold):
		return StateValid
	default:
		return StateExpiringSoon
	}
}

// current returns the held token when valid, otherwise exchanges for a new one.
func (s *tokenStore) current(ctx context.Context, exchange exchangeFunc) (Token, error) {
	if t, ok := s.get(); ok && t.ValidAt(s.now(), s.threshold) {
		return t, nil
	}
	return s.renew(ctx, exchange, false)
}

// renew runs exchange under the singleflight group. Unless force is set, a caller that
// arrives after another caller already stored a valid token returns that token.
func (s *tokenStore) renew(ctx context.Context, exchange exchangeFunc, force bool) (Token, error) {
	return s.shared(ctx, "token exchange", func(flightCtx context.Context) (Token, error) {
		if !force {
			if t, ok := s.get(); ok && t.ValidAt(s.now(), s.threshold) {
				return t, nil
			}
		}

		t, err := exchange(flightCtx)
		if err != nil {
			return Token{}, err
		}
		if !t.ValidAt(s.now(), s.threshold) {
			return Token{}, &apierrors.AuthError{
				Op: "token exchange",
				Err: fmt.Errorf("token lifetime (%s) does not exceed the refresh threshold (%s)",
					t.Expires.Sub(s.now()).Round(time.Second), s.threshold),
			}
		}

		s.set(t)
		return t, nil
	})
}

// shared runs fn once for all concurrent callers. fn gets a context that outlives any single
// caller's cancellation; the connector timeout still bounds it. Each caller stops waiting when
// its own ctx is done and the flight carries on for the others.
func (s *tokenStore) shared(ctx context.Context, op string, fn exchangeFunc) (Token, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(exchangeKey, func() (any, error) {
		return fn(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	case <-ctx.Done():
		return Token{}, &apierrors.AuthError{Op: op, Err: ctx.Err()}
	}
}
