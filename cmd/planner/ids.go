package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const shortIDLength = 8

func shortID(id uuid.UUID) string {
	return id.String()[:shortIDLength]
}

// idIndex remembers every id shown in a listing so commands can take the
// short form
type idIndex struct {
	seen map[uuid.UUID]struct{}
}

func newIDIndex() *idIndex {
	return &idIndex{seen: make(map[uuid.UUID]struct{})}
}

func (x *idIndex) add(ids ...uuid.UUID) {
	for _, id := range ids {
		if id != uuid.Nil {
			x.seen[id] = struct{}{}
		}
	}
}

// resolve accepts a full UUID or a prefix of one that was listed before
func (x *idIndex) resolve(arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	prefix := strings.ToLower(arg)
	if len(prefix) < 4 {
		return uuid.Nil, fmt.Errorf("id %q is too short", arg)
	}

	var match uuid.UUID
	found := 0
	for id := range x.seen {
		if strings.HasPrefix(id.String(), prefix) {
			match = id
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("no listed id starts with %q", arg)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("id %q is ambiguous", arg)
	}
}
