package ledger

import (
	"strconv"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

// VerifyChain checks hash and sequence linkage across a snapshot of entries.
//
// An empty snapshot verifies successfully. Otherwise the first entry's
// previous-hash must equal the genesis constant, every entry's recomputed
// hash must equal its stored hash, every previous-hash must equal the prior
// entry's hash, and sequence numbers must be contiguous starting at 1. The
// first violation found is returned with the offending sequence number so
// operators can localize corruption.
//
// VerifyChain is usable directly on deserialized snapshots, before a ledger
// instance exists.
func VerifyChain[P Payload](entries []Entry[P]) error {
	prev := GenesisHash
	for i, e := range entries {
		meta := map[string]string{
			"seq":   strconv.FormatUint(e.Seq, 10),
			"index": strconv.Itoa(i),
		}
		if want := uint64(i) + 1; e.Seq != want {
			meta["want_seq"] = strconv.FormatUint(want, 10)
			return errors.WithMetadata(errors.CodeChainBroken,
				"sequence numbers are not contiguous", meta)
		}
		if e.PrevHash != prev {
			return errors.WithMetadata(errors.CodeChainBroken,
				"previous-hash link does not match prior entry", meta)
		}
		if got := ChainHash(entryFields(e.Seq, e.Timestamp, e.Payload), e.PrevHash); got != e.Hash {
			return errors.WithMetadata(errors.CodeHashMismatch,
				"stored hash disagrees with recomputed hash", meta)
		}
		prev = e.Hash
	}
	return nil
}
