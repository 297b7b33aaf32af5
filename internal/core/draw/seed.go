package draw

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// seedKeyFormat embeds tournament, round and attempt with fixed separators
// so the same triple always hashes to the same seed on every platform.
const seedKeyFormat = "TISCHPLAN|DRAW|T%d|R%d|A%d"

// DeriveSeed derives the reproducible seed for one (tournament, round,
// attempt) triple. Attempts below 1 are clamped to 1, so the first draw and
// an explicit attempt of 1 are the same draw.
//
// The seed is the first 8 bytes of the SHA-256 digest of the key, read
// big-endian and reduced modulo 2^63-1, so it always fits a signed 64-bit
// integer column.
func DeriveSeed(tournamentID int64, roundNo, attempt int) int64 {
	if attempt < 1 {
		attempt = 1
	}
	key := fmt.Sprintf(seedKeyFormat, tournamentID, roundNo, attempt)
	digest := sha256.Sum256([]byte(key))
	raw := binary.BigEndian.Uint64(digest[:8])
	return int64(raw % ((1 << 63) - 1))
}
