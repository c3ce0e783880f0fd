package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/luminai/askdocs/core"
)

// Key prefixes for different data types
const (
	uploadRecordPrefix     = "uplrec"
	uploadRecordDatePrefix = "uplrecd"
	uploadRecordIDSeq      = "uplrecseq"
	sessionRecordPrefix    = "sesrec"
	sessionIDSeq           = "sesrecseq"
	exchangeRecordPrefix   = "excrec"
	exchangeSessionPrefix  = "excrecs"
	exchangeIDSeq          = "excrecseq"
	usageRecordPrefix      = "usgrec"
	vectorRecordPrefix     = "vecrec"
	vectorMetaKeyName      = "vecmeta"
)

// makeUploadKey generates a key for an upload record by ID.
func makeUploadKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", uploadRecordPrefix, id))
}

// makeUploadDateKey generates a composite key for the upload creation index.
// Format: prefix:timestamp:id
func makeUploadDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := uploadRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialUploadDateKey generates a partial key for creation range scans.
// Format: prefix:timestamp
func makePartialUploadDateKey(timestamp time.Time) []byte {
	prefix := uploadRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeSessionKey generates a key for a chat session by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionRecordPrefix, id))
}

// makeExchangeKey generates a key for an exchange by ID.
func makeExchangeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", exchangeRecordPrefix, id))
}

// makeExchangeSessionKey generates a composite key for the per-session index.
// Format: prefix:sessionID:timestamp:id
func makeExchangeSessionKey(sessionID core.ID, timestamp time.Time, id core.ID) []byte {
	prefix := exchangeSessionPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for sessionID, timestamp, ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sessionID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialExchangeSessionKey generates a partial key covering one session.
// Format: prefix:sessionID
func makePartialExchangeSessionKey(sessionID core.ID) []byte {
	prefix := exchangeSessionPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for sessionID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(sessionID))
	return buf
}

// makeExchangeSessionTimeKey generates a partial key for ranged scans within
// one session's index. Format: prefix:sessionID:timestamp
func makeExchangeSessionTimeKey(sessionID core.ID, timestamp time.Time) []byte {
	prefix := exchangeSessionPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(sessionID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeUsageKey generates a key for a caller's monthly prompt counter.
// Format: prefix:subject:YYYY-MM (month in UTC)
func makeUsageKey(subject string, at time.Time) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", usageRecordPrefix, subject, at.UTC().Format("2006-01")))
}

// makeVectorKey generates a key for a vector record. The record's string id is
// hashed so identical ids always land on the same key, which is what makes
// re-ingestion an overwrite rather than a duplicate.
func makeVectorKey(recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorRecordPrefix, core.IDFromContent(recordID)))
}

// makeVectorMetaKey generates the key holding index dimension and metric.
func makeVectorMetaKey() []byte {
	return []byte(vectorMetaKeyName)
}
