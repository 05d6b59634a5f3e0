// Package fingerprint builds the transposition cache key of a position.
//
// The key covers the hook positions (by player) and the fish positions (by
// fish ID) and nothing else: scores, caught-fish status and the side to
// move are left out, so positions with the same geometry but different
// scores share a key.
package fingerprint

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/domino14/fishderby/game"
)

type Key uint64

const (
	hookTag = 'h'
	fishTag = 'f'
)

// Canonical appends the canonical serialization of s to buf and returns
// it. Fish are already sorted by ID in a State.
func Canonical(buf []byte, s *game.State) []byte {
	buf = append(buf, hookTag)
	for _, h := range s.Hooks {
		buf = binary.AppendUvarint(buf, uint64(h.X))
		buf = binary.AppendUvarint(buf, uint64(h.Y))
	}
	buf = append(buf, fishTag)
	for _, f := range s.Fish {
		buf = binary.AppendVarint(buf, int64(f.ID))
		buf = binary.AppendUvarint(buf, uint64(f.Pos.X))
		buf = binary.AppendUvarint(buf, uint64(f.Pos.Y))
	}
	return buf
}

// Hasher computes keys, reusing one scratch buffer. It is not safe for
// concurrent use.
type Hasher struct {
	buf []byte
}

func (h *Hasher) Key(s *game.State) Key {
	h.buf = Canonical(h.buf[:0], s)
	return Key(xxhash.Sum64(h.buf))
}

// Of is a convenience wrapper that allocates its own buffer.
func Of(s *game.State) Key {
	var buf [64]byte
	return Key(xxhash.Sum64(Canonical(buf[:0], s)))
}
