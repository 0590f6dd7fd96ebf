// Package memory keeps every repository in process maps. It backs the
// "memory" db driver for local runs and the service and HTTP tests.
package memory

import (
	"sort"
	"time"

	"produce-market/internal/domain"
)

func NewStore() domain.Store {
	return domain.Store{
		Users:    NewUserRepository(),
		Products: NewProductRepository(),
		Orders:   NewOrderRepository(),
		Contacts: NewContactRepository(),
	}
}

// clock is a strictly increasing time source so newest-first ordering is
// deterministic even when records are created within the same tick.
type clock struct{ last time.Time }

func (c *clock) now() time.Time {
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

func newestFirst[T any](s []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(s, func(i, j int) bool {
		ci, cj := created(s[i]), created(s[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(s[i]) > id(s[j])
	})
}
