package words

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailySeed returns a deterministic grid seed for a date using keyed
// BLAKE2b(salt, YYYY-MM-DD). Every caller on the same UTC day gets the same seed.
func DailySeed(date time.Time, salt string) int64 {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		// blake2b keys are capped at 64 bytes
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// only reachable with an oversize key, handled above
		panic(err)
	}
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// top bit cleared so the seed is never negative
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
