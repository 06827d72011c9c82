package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu    sync.Mutex
	mono  io.Reader
	epoch = time.Unix(0, 0)
)

func init() {
	// Monotonic entropy keeps IDs minted within the same millisecond
	// lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID stamped with the current wall clock. Used for run IDs.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID stamped with t. Fills are stamped with their bar
// time so IDs sort in simulated order. Times outside the ULID range are
// clamped to the Unix epoch or the largest encodable millisecond.
func NewAt(t time.Time) string {
	ms := timestamp(t)

	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ms, mono)
	if err != nil {
		// Monotonic overflow within one millisecond; fall back to fresh entropy.
		id, err = ulid.New(ms, cryptoRand.Reader)
	}
	if err != nil {
		id, _ = ulid.New(ms, nil)
	}
	return id.String()
}

func timestamp(t time.Time) uint64 {
	if t.Before(epoch) {
		return 0
	}
	if t.After(ulid.Time(ulid.MaxTime())) {
		return ulid.MaxTime()
	}
	return ulid.Timestamp(t)
}

// Time extracts the timestamp encoded in a ULID string.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
