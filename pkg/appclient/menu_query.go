package appclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSuperseded is returned by Refetch when a newer request was dispatched
// before this one answered; its result was discarded.
var ErrSuperseded = errors.New("menu request superseded")

// MenuFetcher loads menu items. *Client satisfies it.
type MenuFetcher interface {
	Menu(ctx context.Context, p MenuParams) ([]MenuItem, error)
}

type MenuState struct {
	Items     []MenuItem `json:"items"`
	IsLoading bool       `json:"is_loading"`
	Err       error      `json:"-"`
	Params    MenuParams `json:"params"`
}

// MenuQuery holds the result of the latest menu request. Responses are
// applied only if no newer request was dispatched since, so a slow answer
// never overwrites a fresher one.
type MenuQuery struct {
	api MenuFetcher
	seq atomic.Uint64

	mu    sync.Mutex
	state MenuState
}

func NewMenuQuery(api MenuFetcher) *MenuQuery {
	return &MenuQuery{api: api}
}

func (q *MenuQuery) State() MenuState {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.state
	s.Items = append([]MenuItem(nil), q.state.Items...)
	return s
}

// Refetch loads the menu for params. On failure the previous items stay and
// the error is recorded.
func (q *MenuQuery) Refetch(ctx context.Context, params MenuParams) error {
	n := q.seq.Add(1)

	q.mu.Lock()
	q.state.IsLoading = true
	q.state.Params = params
	q.mu.Unlock()

	items, err := q.api.Menu(ctx, params)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.seq.Load() != n {
		return ErrSuperseded
	}
	q.state.IsLoading = false
	if err != nil {
		q.state.Err = err
		return err
	}
	q.state.Items = items
	q.state.Err = nil
	return nil
}
