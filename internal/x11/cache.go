package x11

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// atomCache remembers interned atoms for the lifetime of a connection so each
// name costs at most one round trip.
type atomCache struct {
	conn  *xgb.Conn
	mu    sync.Mutex
	atoms map[string]xproto.Atom
}

func newAtomCache(conn *xgb.Conn) *atomCache {
	return &atomCache{
		conn:  conn,
		atoms: make(map[string]xproto.Atom),
	}
}

// Lookup returns the atom for name. With onlyIfExists set, a name the server
// has never interned yields xproto.AtomNone instead of a new atom. AtomNone
// results are not cached since the name may be interned later.
func (c *atomCache) Lookup(name string, onlyIfExists bool) (xproto.Atom, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(c.conn, onlyIfExists, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("intern %s: %w", name, err)
	}
	if reply.Atom != xproto.AtomNone {
		c.atoms[name] = reply.Atom
	}
	return reply.Atom, nil
}
