package ledger

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
)

// GenesisHash is the fixed previous-hash of the first entry in every chain.
const GenesisHash = "0000000000000000"

// fieldSeparator keeps adjacent field values from colliding by concatenation.
const fieldSeparator = 0x1f

// entryFields produces the deterministic encoding hashed for an entry:
// sequence number, timestamp in unix milliseconds, then the payload's own
// field encoding.
func entryFields[P Payload](seq uint64, ts time.Time, payload P) []string {
	fields := []string{
		strconv.FormatUint(seq, 10),
		strconv.FormatInt(ts.UnixMilli(), 10),
	}
	return append(fields, payload.EncodeFields()...)
}

// ChainHash computes the 64-bit FNV-1a hash linking an entry to its
// predecessor, rendered as 16 lowercase hex characters.
//
// The hash is integer-only and reproducible but not cryptographically
// secure: it detects accidental corruption and reordering, nothing more.
func ChainHash(fields []string, prevHash string) string {
	h := fnv.New64a()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{fieldSeparator})
	}
	h.Write([]byte(prevHash))
	return fmt.Sprintf("%016x", h.Sum64())
}
