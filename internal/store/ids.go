package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

const taskIDPrefix = "task"

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits (~1 trillion) of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// nextIDLocked returns an id that has never been issued in this session.
// Callers must hold s.mu.
func (s *Store) nextIDLocked() string {
	for i := 0; i < 10; i++ {
		id, err := s.newID()
		if err != nil {
			break
		}
		if _, used := s.issued[id]; !used {
			return id
		}
	}
	// crypto/rand failed or kept colliding: fall back to a session counter.
	for {
		s.fallbackSeq++
		id := fmt.Sprintf("%s-%d", taskIDPrefix, s.fallbackSeq)
		if _, used := s.issued[id]; !used {
			return id
		}
	}
}
