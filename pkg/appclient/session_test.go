package appclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	user       *User
	signedIn   *User
	currentErr error
	signInErr  error
	signOutErr error
	signOuts   int
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*User, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signedIn, nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.user, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.signOuts++
	return f.signOutErr
}

func TestSessionBridge_StartsLoading(t *testing.T) {
	b := NewSessionBridge(&fakeAuth{})
	assert.True(t, b.State().IsLoading)
	assert.Equal(t, GateWait, b.Gate())
}

func TestSessionBridge_ResolveAuthenticated(t *testing.T) {
	b := NewSessionBridge(&fakeAuth{user: &User{ID: "u1", Name: "Ada"}})
	s := b.Resolve(context.Background())

	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, GateRender, b.Gate())
}

func TestSessionBridge_ResolveSwallowsErrors(t *testing.T) {
	b := NewSessionBridge(&fakeAuth{currentErr: &APIError{Status: 401, Message: "unauthorized"}})
	s := b.Resolve(context.Background())

	assert.Equal(t, SessionState{}, s)
	assert.Equal(t, GateRedirect, b.Gate())
}

func TestSessionBridge_SignInRefetchesProfile(t *testing.T) {
	api := &fakeAuth{
		signedIn:   &User{ID: "u1", Name: "from sign-in"},
		user:       &User{ID: "u1", Name: "from profile"},
		currentErr: errors.New("boom"),
	}
	b := NewSessionBridge(api)
	b.Resolve(context.Background())
	require.Equal(t, GateRedirect, b.Gate())

	api.currentErr = nil
	u, err := b.SignIn(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "from profile", u.Name)
	assert.True(t, b.State().IsAuthenticated)
}

func TestSessionBridge_SignInFallsBackToPayload(t *testing.T) {
	api := &fakeAuth{signedIn: &User{ID: "u1", Name: "from sign-in"}, currentErr: errors.New("timeout")}
	b := NewSessionBridge(api)

	u, err := b.SignIn(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "from sign-in", u.Name)
	assert.Equal(t, GateRender, b.Gate())
}

func TestSessionBridge_FailedSignInKeepsState(t *testing.T) {
	api := &fakeAuth{currentErr: errors.New("no session"), signInErr: &APIError{Status: 401, Message: "invalid email or password"}}
	b := NewSessionBridge(api)
	b.Resolve(context.Background())

	_, err := b.SignIn(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", UserMessage(err))
	assert.False(t, b.State().IsAuthenticated)
}

func TestSessionBridge_SignOut(t *testing.T) {
	api := &fakeAuth{user: &User{ID: "u1"}}
	b := NewSessionBridge(api)
	b.Resolve(context.Background())

	require.NoError(t, b.SignOut(context.Background()))
	assert.Equal(t, 1, api.signOuts)
	assert.Equal(t, GateRedirect, b.Gate())
}

func TestSessionBridge_SignOutFailureKeepsSession(t *testing.T) {
	api := &fakeAuth{user: &User{ID: "u1"}, signOutErr: errors.New("offline")}
	b := NewSessionBridge(api)
	b.Resolve(context.Background())

	require.Error(t, b.SignOut(context.Background()))
	assert.True(t, b.State().IsAuthenticated)
}

func TestSessionBridge_SubscribersSeeTransitions(t *testing.T) {
	api := &fakeAuth{user: &User{ID: "u1"}}
	b := NewSessionBridge(api)

	var seen []bool
	unsubscribe := b.Subscribe(func(s SessionState) { seen = append(seen, s.IsAuthenticated) })

	b.Resolve(context.Background())
	require.NoError(t, b.SignOut(context.Background()))
	unsubscribe()
	b.Resolve(context.Background())

	assert.Equal(t, []bool{true, false}, seen)
}

// stallingAuth holds the first CurrentUser call until released, then answers
// it with lateUser, or an error when lateUser is nil.
type stallingAuth struct {
	fakeAuth
	lateUser *User
	once     sync.Once
	entered  chan struct{}
	release  chan struct{}
}

func (f *stallingAuth) CurrentUser(ctx context.Context) (*User, error) {
	first := false
	f.once.Do(func() { first = true })
	if first {
		close(f.entered)
		<-f.release
		if f.lateUser != nil {
			return f.lateUser, nil
		}
		return nil, errors.New("network timeout")
	}
	return f.fakeAuth.CurrentUser(ctx)
}

func TestSessionBridge_LateResolveDoesNotUndoSignIn(t *testing.T) {
	api := &stallingAuth{
		fakeAuth: fakeAuth{signedIn: &User{ID: "u1"}, user: &User{ID: "u1", Name: "Ada"}},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	b := NewSessionBridge(api)

	resolved := make(chan SessionState, 1)
	go func() { resolved <- b.Resolve(context.Background()) }()
	<-api.entered

	_, err := b.SignIn(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	close(api.release)

	s := <-resolved
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "Ada", s.User.Name)
	assert.True(t, b.State().IsAuthenticated)
	assert.Equal(t, GateRender, b.Gate())
}

func TestSessionBridge_LateResolveDoesNotUndoSignOut(t *testing.T) {
	api := &stallingAuth{
		lateUser: &User{ID: "u1"},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	b := NewSessionBridge(api)

	resolved := make(chan SessionState, 1)
	go func() { resolved <- b.Resolve(context.Background()) }()
	<-api.entered

	require.NoError(t, b.SignOut(context.Background()))
	close(api.release)

	assert.False(t, (<-resolved).IsAuthenticated)
	assert.Equal(t, GateRedirect, b.Gate())
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "wait", GateWait.String())
	assert.Equal(t, "redirect", GateRedirect.String())
	assert.Equal(t, "render", GateRender.String())
}
