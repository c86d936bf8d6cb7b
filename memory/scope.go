package memory

import (
	"context"
	"strings"
)

// scoped confines a shared store to one room. Names are stored as
// "<room>/<creep>", so cleanup in one room never sees another room's records.
type scoped struct {
	inner  Store
	prefix string
}

// Scope returns a view of s holding only room's records. Closing the view
// leaves s open.
func Scope(s Store, room string) Store {
	if room == "" {
		room = "_"
	}
	return &scoped{inner: s, prefix: room + "/"}
}

func (s *scoped) Get(ctx context.Context, name string) (Creep, bool, error) {
	return s.inner.Get(ctx, s.prefix+name)
}

func (s *scoped) Put(ctx context.Context, name string, rec Creep) error {
	return s.inner.Put(ctx, s.prefix+name, rec)
}

func (s *scoped) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, s.prefix+name)
}

// Names keeps the inner store's ordering.
func (s *scoped) Names(ctx context.Context) ([]string, error) {
	all, err := s.inner.Names(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, n := range all {
		if rest, ok := strings.CutPrefix(n, s.prefix); ok {
			names = append(names, rest)
		}
	}
	return names, nil
}

func (s *scoped) Close() error { return nil }
