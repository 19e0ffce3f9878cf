package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember-server/internal/models"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestDecodeLogs(t *testing.T) {
	t.Run("Fills missing textColor with the default", func(t *testing.T) {
		// Запись старой схемы: textColor ещё не существовал
		raw := []byte(`[{"id":"5bd88fcc-59b3-4c03-9215-dd4a53ec9933","text":"hello","action":"expressed","timestamp":"2026-01-10T12:00:00Z"}]`)

		logs, dropped, err := decodeLogs(raw)

		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		require.Len(t, logs, 1)
		assert.Equal(t, models.DefaultTextColor, logs[0].TextColor)
		assert.Equal(t, "hello", logs[0].Text)
		assert.Equal(t, models.ActionExpressed, logs[0].Action)
		assert.Empty(t, logs[0].QuickEmotion)
	})

	t.Run("Keeps an explicit textColor as stored", func(t *testing.T) {
		raw := []byte(`[{"id":"5bd88fcc-59b3-4c03-9215-dd4a53ec9933","text":"hi","action":"suppressed","timestamp":"2026-01-10T12:00:00Z","textColor":"blue","quickEmotion":"fear"}]`)

		logs, dropped, err := decodeLogs(raw)

		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		require.Len(t, logs, 1)
		assert.Equal(t, "blue", logs[0].TextColor)
		assert.Equal(t, "fear", logs[0].QuickEmotion)
	})

	t.Run("Drops records with missing required fields and keeps the rest", func(t *testing.T) {
		raw := []byte(`[
			{"id":"5bd88fcc-59b3-4c03-9215-dd4a53ec9933","text":"good","action":"expressed","timestamp":"2026-01-10T12:00:00Z"},
			{"text":"no id","action":"expressed","timestamp":"2026-01-10T12:00:00Z"},
			{"id":"not-a-uuid","text":"bad id","action":"expressed","timestamp":"2026-01-10T12:00:00Z"},
			{"id":"0b6f15c4-54bd-4c62-9b14-95b80d27b86e","text":"bad action","action":"shouted","timestamp":"2026-01-10T12:00:00Z"},
			{"id":"1c7f26d5-65ce-4d73-8c25-a6c91e38c97f","text":"   ","action":"expressed","timestamp":"2026-01-10T12:00:00Z"}
		]`)

		logs, dropped, err := decodeLogs(raw)

		require.NoError(t, err)
		assert.Equal(t, 4, dropped)
		require.Len(t, logs, 1)
		assert.Equal(t, "good", logs[0].Text)
	})

	t.Run("Rejects a payload that is not a JSON array", func(t *testing.T) {
		_, _, err := decodeLogs([]byte(`{"oops":true}`))
		assert.Error(t, err)

		_, _, err = decodeLogs([]byte(`not json at all`))
		assert.Error(t, err)
	})

	t.Run("Migration is idempotent", func(t *testing.T) {
		raw := []byte(`[{"id":"5bd88fcc-59b3-4c03-9215-dd4a53ec9933","text":"hello","action":"expressed","timestamp":"2026-01-10T12:00:00Z"}]`)

		first, _, err := decodeLogs(raw)
		require.NoError(t, err)

		// Повторный прогон уже мигрированных данных ничего не меняет
		migrated, err := json.Marshal(first)
		require.NoError(t, err)
		second, dropped, err := decodeLogs(migrated)
		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, first, second)
	})

	t.Run("Empty array stays empty", func(t *testing.T) {
		logs, dropped, err := decodeLogs([]byte(`[]`))

		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		assert.Empty(t, logs)
	})
}

func TestMigrateLogRecordPreservesIdentity(t *testing.T) {
	id := uuid.New()
	raw, err := json.Marshal([]models.EmotionLog{{
		ID:        id,
		Text:      "kept",
		Action:    models.ActionSuppressed,
		Timestamp: mustParseTime(t, "2026-02-01T09:30:00Z"),
		TextColor: "pink",
	}})
	require.NoError(t, err)

	logs, dropped, err := decodeLogs(raw)

	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, logs, 1)
	assert.Equal(t, id, logs[0].ID)
	assert.Equal(t, "pink", logs[0].TextColor)
}

func TestDecodeCreature(t *testing.T) {
	t.Run("Accepts a complete record", func(t *testing.T) {
		state, err := decodeCreature([]byte(`{"brightness":70,"size":40,"animation":"idle"}`))

		require.NoError(t, err)
		assert.Equal(t, 70, state.Brightness)
		assert.Equal(t, 40, state.Size)
		assert.Equal(t, models.AnimationIdle, state.Animation)
	})

	t.Run("Rejects a record with a missing field", func(t *testing.T) {
		// Грубая схема: нет пополевой миграции, запись бракуется целиком
		_, err := decodeCreature([]byte(`{"brightness":70,"size":40}`))
		assert.Error(t, err)
	})

	t.Run("Rejects out-of-range values", func(t *testing.T) {
		_, err := decodeCreature([]byte(`{"brightness":101,"size":40,"animation":"idle"}`))
		assert.Error(t, err)

		_, err = decodeCreature([]byte(`{"brightness":70,"size":-1,"animation":"idle"}`))
		assert.Error(t, err)
	})

	t.Run("Rejects an unknown animation", func(t *testing.T) {
		_, err := decodeCreature([]byte(`{"brightness":70,"size":40,"animation":"spin"}`))
		assert.Error(t, err)
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		_, err := decodeCreature([]byte(`{broken`))
		assert.Error(t, err)
	})
}

func TestDecodeCustomization(t *testing.T) {
	t.Run("Accepts a complete record", func(t *testing.T) {
		customization, err := decodeCustomization([]byte(`{"name":"Луми","color":"purple","hasBow":true}`))

		require.NoError(t, err)
		assert.Equal(t, "Луми", customization.Name)
		assert.Equal(t, "purple", customization.Color)
		assert.True(t, customization.HasBow)
	})

	t.Run("Rejects a record with a missing field", func(t *testing.T) {
		_, err := decodeCustomization([]byte(`{"name":"Ember","color":"green"}`))
		assert.Error(t, err)
	})

	t.Run("Rejects an unknown color", func(t *testing.T) {
		_, err := decodeCustomization([]byte(`{"name":"Ember","color":"teal","hasBow":false}`))
		assert.Error(t, err)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		_, err := decodeCustomization([]byte(`{"name":"  ","color":"green","hasBow":false}`))
		assert.Error(t, err)
	})
}

func TestDecodeCounter(t *testing.T) {
	t.Run("Parses a decimal value", func(t *testing.T) {
		value, err := decodeCounter([]byte("42"))
		require.NoError(t, err)
		assert.Equal(t, int64(42), value)
	})

	t.Run("Tolerates surrounding whitespace", func(t *testing.T) {
		value, err := decodeCounter([]byte(" 7\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(7), value)
	})

	t.Run("Rejects negative values", func(t *testing.T) {
		_, err := decodeCounter([]byte("-1"))
		assert.Error(t, err)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := decodeCounter([]byte("ten"))
		assert.Error(t, err)
	})
}
