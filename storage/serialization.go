// Copyright 2025 Luminai Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/luminai/askdocs/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalUploadRecord serializes an UploadRecord to bytes.
func MarshalUploadRecord(record *core.UploadRecord) []byte {
	buf := make([]byte, core.UploadRecordMUS.Size(*record))
	core.UploadRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalUploadRecord deserializes an UploadRecord from bytes.
func UnmarshalUploadRecord(data []byte) (*core.UploadRecord, error) {
	record, _, err := core.UploadRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalChatSession serializes a ChatSession to bytes.
func MarshalChatSession(session *core.ChatSession) []byte {
	buf := make([]byte, core.ChatSessionMUS.Size(*session))
	core.ChatSessionMUS.Marshal(*session, buf)
	return buf
}

// UnmarshalChatSession deserializes a ChatSession from bytes.
func UnmarshalChatSession(data []byte) (*core.ChatSession, error) {
	session, _, err := core.ChatSessionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarshalExchange serializes an Exchange to bytes.
func MarshalExchange(exchange *core.Exchange) []byte {
	buf := make([]byte, core.ExchangeMUS.Size(*exchange))
	core.ExchangeMUS.Marshal(*exchange, buf)
	return buf
}

// UnmarshalExchange deserializes an Exchange from bytes.
func UnmarshalExchange(data []byte) (*core.Exchange, error) {
	exchange, _, err := core.ExchangeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
