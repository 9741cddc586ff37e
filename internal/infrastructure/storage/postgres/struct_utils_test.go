package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fatturo/internal/core/entity"
	"fatturo/internal/core/id"
)

type MockRecord struct {
	entity.BaseDocument
	Title  string  `db:"title" json:"title"`
	Amount float64 `db:"amount" json:"amount"`
	Note   string  `json:"note"`
	hidden string
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[MockRecord]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "created_by", "updated_by", "title", "amount",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "note")
	assert.NotContains(t, cols, "hidden")
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	cols := ExtractDBColumns[*MockRecord]()
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "title")
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	now := time.Now().UTC()
	rec := MockRecord{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: "mario",
		},
		Title:  "Test",
		Amount: 99.5,
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "mario", m["created_by"])
	assert.Equal(t, "Test", m["title"])
	assert.Equal(t, 99.5, m["amount"])

	_, hasNote := m["note"]
	assert.False(t, hasNote)
}

func TestStructToMap_NilPointer(t *testing.T) {
	var rec *MockRecord
	m := StructToMap(rec)
	assert.Empty(t, m)
}
