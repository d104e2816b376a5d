package appclient

import (
	"context"
	"sync"
)

// AuthAPI is the slice of the API the session bridge needs. *Client satisfies it.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	CurrentUser(ctx context.Context) (*User, error)
	SignOut(ctx context.Context) error
}

// SessionState is what screens read to decide whether a user is signed in.
type SessionState struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	User            *User `json:"user"`
	IsLoading       bool  `json:"is_loading"`
}

// Gate is what a protected screen does with the current session.
type Gate int

const (
	GateWait Gate = iota
	GateRedirect
	GateRender
)

func (g Gate) String() string {
	switch g {
	case GateWait:
		return "wait"
	case GateRedirect:
		return "redirect"
	default:
		return "render"
	}
}

// SessionBridge mirrors the server session on the client. It starts Loading
// and settles on Authenticated or Unauthenticated.
type SessionBridge struct {
	api AuthAPI

	mu     sync.Mutex
	state  SessionState
	gen    uint64 // bumped by every SignIn/SignOut that lands
	subs   map[int]func(SessionState)
	nextID int
}

func NewSessionBridge(api AuthAPI) *SessionBridge {
	return &SessionBridge{
		api:   api,
		state: SessionState{IsLoading: true},
		subs:  make(map[int]func(SessionState)),
	}
}

func (b *SessionBridge) State() SessionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Gate: wait while loading, redirect to sign-in when signed out.
func (b *SessionBridge) Gate() Gate {
	s := b.State()
	switch {
	case s.IsLoading:
		return GateWait
	case !s.IsAuthenticated:
		return GateRedirect
	default:
		return GateRender
	}
}

// Subscribe registers fn for every state transition and returns a function
// that removes it.
func (b *SessionBridge) Subscribe(fn func(SessionState)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Resolve fetches the current account. Any failure means signed out; it is
// not reported. A result that arrives after a SignIn or SignOut has landed is
// dropped and the newer state is returned.
func (b *SessionBridge) Resolve(ctx context.Context) SessionState {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	u, err := b.api.CurrentUser(ctx)
	if err != nil || u == nil {
		return b.apply(gen, SessionState{})
	}
	return b.apply(gen, SessionState{IsAuthenticated: true, User: u})
}

// SignIn authenticates and then re-reads the profile, falling back to the
// sign-in payload when the profile fetch fails. A failed sign-in leaves the
// state untouched.
func (b *SessionBridge) SignIn(ctx context.Context, email, password string) (*User, error) {
	signed, err := b.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	u, err := b.api.CurrentUser(ctx)
	if err != nil || u == nil {
		u = signed
	}
	b.set(SessionState{IsAuthenticated: true, User: u})
	return u, nil
}

// SignOut moves to Unauthenticated once the server session is gone.
func (b *SessionBridge) SignOut(ctx context.Context) error {
	if err := b.api.SignOut(ctx); err != nil {
		return err
	}
	b.set(SessionState{})
	return nil
}

// set records an explicit transition and invalidates in-flight resolves.
func (b *SessionBridge) set(s SessionState) SessionState {
	b.mu.Lock()
	b.gen++
	b.state = s
	return b.notify(s)
}

func (b *SessionBridge) apply(gen uint64, s SessionState) SessionState {
	b.mu.Lock()
	if b.gen != gen {
		cur := b.state
		b.mu.Unlock()
		return cur
	}
	b.state = s
	return b.notify(s)
}

// notify must be called with b.mu held; it releases it.
func (b *SessionBridge) notify(s SessionState) SessionState {
	subs := make([]func(SessionState), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return s
}
