package block

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"provchain/jsonx"
	"provchain/types"
)

// ComputeHash is the single hashing routine for blocks. Validation must call
// it with the stored fields, byte for byte, or an untampered chain will look
// tampered. Timestamps hash at UnixNano precision; records hash through the
// canonical jsonx serialization of the embedded snapshots.
func ComputeHash(sequenceNumber uint64, prevHash string, timestamp time.Time, records []types.Record) string {
	h := sha256.New()
	buf := make([]byte, 8)
	// SequenceNumber
	binary.BigEndian.PutUint64(buf, sequenceNumber)
	h.Write(buf)
	// PrevHash
	h.Write([]byte(prevHash))
	// Timestamp (UnixNano)
	binary.BigEndian.PutUint64(buf, uint64(timestamp.UnixNano()))
	h.Write(buf)
	// Records
	h.Write(jsonx.MustMarshal(records))
	return hex.EncodeToString(h.Sum(nil))
}

// Recompute re-derives the hash from the block's stored fields.
func Recompute(b *Block) string {
	return ComputeHash(b.SequenceNumber, b.PrevHash, b.Timestamp, b.Records)
}
