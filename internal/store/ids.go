package store

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// idSource hands out ULIDs. Not safe for concurrent use; a store belongs to one session.
type idSource struct {
	entropy *rand.Rand
}

func newIDSource() *idSource {
	return &idSource{entropy: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *idSource) next() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
