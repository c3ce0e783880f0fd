package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUploadRecord(t *testing.T) {
	valid := &UploadRecord{
		StorageKey:   "uploads/abc_report.pdf",
		OriginalName: "report.pdf",
		Status:       StatusPending,
	}
	assert.NoError(t, ValidateUploadRecord(valid))

	t.Run("nil record", func(t *testing.T) {
		err := ValidateUploadRecord(nil)
		assert.ErrorIs(t, err, ErrInvalidUploadRecord)
	})

	t.Run("empty storage key", func(t *testing.T) {
		record := *valid
		record.StorageKey = ""
		err := ValidateUploadRecord(&record)
		assert.ErrorIs(t, err, ErrInvalidUploadRecord)
		assert.ErrorIs(t, err, ErrEmptyStorageKey)
	})

	t.Run("unknown status", func(t *testing.T) {
		record := *valid
		record.Status = Status("uploading")
		err := ValidateUploadRecord(&record)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestValidateExchange(t *testing.T) {
	valid := &Exchange{
		SessionId: 7,
		Owner:     "user-1",
		Query:     "What is the capital of France?",
		Answer:    "Paris.",
	}
	assert.NoError(t, ValidateExchange(valid))

	t.Run("nil exchange", func(t *testing.T) {
		assert.ErrorIs(t, ValidateExchange(nil), ErrInvalidExchange)
	})

	t.Run("empty query", func(t *testing.T) {
		exchange := *valid
		exchange.Query = ""
		err := ValidateExchange(&exchange)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("empty owner", func(t *testing.T) {
		exchange := *valid
		exchange.Owner = ""
		err := ValidateExchange(&exchange)
		assert.ErrorIs(t, err, ErrEmptyOwner)
	})
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		assert.NoError(t, ValidateStatus(status))
	}
	assert.ErrorIs(t, ValidateStatus(Status("done")), ErrInvalidStatus)
}
