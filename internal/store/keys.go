package store

import "encoding/binary"

const (
	historyPrefix = "history:"
	sequenceKey   = "seq:history"

	// Sequence numbers leased per Badger round trip.
	sequenceBandwidth = 100
)

// historyKey builds "history:" followed by the big-endian sequence number,
// so lexical key order equals insertion order.
func historyKey(seq uint64) []byte {
	key := make([]byte, 0, len(historyPrefix)+8)
	key = append(key, historyPrefix...)
	return binary.BigEndian.AppendUint64(key, seq)
}
