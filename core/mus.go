package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. Timestamps are
// stored as Unix microseconds, vectors as a length-prefixed float32 sequence.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// timeMUS serializes time.Time as Unix microseconds.
type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

// vectorMUS serializes embedding vectors as a length-prefixed float32 sequence.
type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length <= 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var m int
		v[i], m, err = varint.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

var (
	timeSer   = timeMUS{}
	vectorSer = vectorMUS{}
)

// UploadRecordMUS serializes UploadRecord values.
var UploadRecordMUS = uploadRecordMUS{}

type uploadRecordMUS struct{}

func (uploadRecordMUS) Marshal(v UploadRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.OwnerRole, bs[n:])
	n += ord.String.Marshal(v.OriginalName, bs[n:])
	n += ord.String.Marshal(v.StorageKey, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	n += varint.Int.Marshal(v.ChunksProcessed, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (uploadRecordMUS) Unmarshal(bs []byte) (v UploadRecord, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.OwnerRole, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.OriginalName, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.StorageKey, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Category, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	var status string
	if status, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Status = Status(status)
	n += m
	if v.Error, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.ChunksProcessed, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (uploadRecordMUS) Size(v UploadRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.OwnerRole)
	size += ord.String.Size(v.OriginalName)
	size += ord.String.Size(v.StorageKey)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(string(v.Status))
	size += ord.String.Size(v.Error)
	size += varint.Int.Size(v.ChunksProcessed)
	size += timeSer.Size(v.CreatedAt)
	size += timeSer.Size(v.UpdatedAt)
	return size
}

// ChatSessionMUS serializes ChatSession values.
var ChatSessionMUS = chatSessionMUS{}

type chatSessionMUS struct{}

func (chatSessionMUS) Marshal(v ChatSession, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Owner, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (chatSessionMUS) Unmarshal(bs []byte) (v ChatSession, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.Owner, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (chatSessionMUS) Size(v ChatSession) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Owner)
	size += timeSer.Size(v.CreatedAt)
	return size
}

// ExchangeMUS serializes Exchange values.
var ExchangeMUS = exchangeMUS{}

type exchangeMUS struct{}

func (exchangeMUS) Marshal(v Exchange, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.SessionId, bs[n:])
	n += ord.String.Marshal(v.Owner, bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (exchangeMUS) Unmarshal(bs []byte) (v Exchange, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.SessionId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Owner, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Query, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Answer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (exchangeMUS) Size(v Exchange) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.SessionId)
	size += ord.String.Size(v.Owner)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.Answer)
	size += timeSer.Size(v.CreatedAt)
	return size
}

// VectorRecordMUS serializes VectorRecord values.
var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += vectorSer.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	return n
}

func (vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	var m int
	if v.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.Vector, m, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Source, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += vectorSer.Size(v.Vector)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Source)
	return size
}
