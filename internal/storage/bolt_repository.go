package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"ember-server/internal/models"
)

// Ключи сущностей внутри бакета состояния.
const (
	keyLogs          = "logs"
	keyCreature      = "creature"
	keySafety        = "safety"
	keyCustomization = "customization"
	keyMicroIndex    = "micro_index"
	keyTextColorPref = "text_color_pref"
	keyProbe         = "__probe__" // Служебный ключ проверки записи
)

var bucketState = []byte("state")

// boltStateRepository хранит состояние во встраиваемой базе bbolt:
// один файл, один бакет, шесть независимых ключей. Файл блокируется
// на время жизни процесса, второй процесс получит отказ открытия.
type boltStateRepository struct {
	db     *bbolt.DB
	logger *zap.Logger

	mu      sync.Mutex
	lastErr error
}

// NewBoltStateRepository открывает (или создаёт) файл базы и готовит бакет.
func NewBoltStateRepository(path string, logger *zap.Logger) (StateRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrStoreUnavailable, path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state bucket: %w", err)
	}
	return &boltStateRepository{db: db, logger: logger}, nil
}

func (r *boltStateRepository) SaveLogs(ctx context.Context, logs []models.EmotionLog) error {
	if logs == nil {
		logs = []models.EmotionLog{}
	}
	data, err := json.Marshal(logs)
	if err != nil {
		return r.fail(keyLogs, fmt.Errorf("marshal logs: %w", err))
	}
	return r.put(ctx, keyLogs, data)
}

func (r *boltStateRepository) LoadLogs(ctx context.Context) []models.EmotionLog {
	raw, ok := r.get(ctx, keyLogs)
	if !ok || raw == nil {
		return []models.EmotionLog{}
	}
	logs, dropped, err := decodeLogs(raw)
	if err != nil {
		r.corrupt(keyLogs, err)
		return []models.EmotionLog{}
	}
	if dropped > 0 {
		r.logger.Warn("Dropped invalid log records on load", zap.Int("dropped", dropped))
	}
	return logs
}

func (r *boltStateRepository) SaveCreature(ctx context.Context, state models.CreatureState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return r.fail(keyCreature, fmt.Errorf("marshal creature: %w", err))
	}
	return r.put(ctx, keyCreature, data)
}

func (r *boltStateRepository) LoadCreature(ctx context.Context) models.CreatureState {
	raw, ok := r.get(ctx, keyCreature)
	if !ok || raw == nil {
		return models.DefaultCreatureState()
	}
	state, err := decodeCreature(raw)
	if err != nil {
		r.corrupt(keyCreature, err)
		return models.DefaultCreatureState()
	}
	return state
}

func (r *boltStateRepository) SaveSafetyScore(ctx context.Context, score int64) error {
	return r.put(ctx, keySafety, []byte(strconv.FormatInt(score, 10)))
}

func (r *boltStateRepository) LoadSafetyScore(ctx context.Context) int64 {
	raw, ok := r.get(ctx, keySafety)
	if !ok || raw == nil {
		return 0
	}
	score, err := decodeCounter(raw)
	if err != nil {
		r.corrupt(keySafety, err)
		return 0
	}
	return score
}

func (r *boltStateRepository) SaveCustomization(ctx context.Context, customization models.CreatureCustomization) error {
	data, err := json.Marshal(customization)
	if err != nil {
		return r.fail(keyCustomization, fmt.Errorf("marshal customization: %w", err))
	}
	return r.put(ctx, keyCustomization, data)
}

func (r *boltStateRepository) LoadCustomization(ctx context.Context) models.CreatureCustomization {
	raw, ok := r.get(ctx, keyCustomization)
	if !ok || raw == nil {
		return models.DefaultCustomization()
	}
	customization, err := decodeCustomization(raw)
	if err != nil {
		r.corrupt(keyCustomization, err)
		return models.DefaultCustomization()
	}
	return customization
}

func (r *boltStateRepository) SaveTextColorPreference(ctx context.Context, color string) error {
	return r.put(ctx, keyTextColorPref, []byte(color))
}

func (r *boltStateRepository) LoadTextColorPreference(ctx context.Context) string {
	raw, ok := r.get(ctx, keyTextColorPref)
	if !ok || raw == nil {
		return models.DefaultTextColor
	}
	color := string(raw)
	if !models.IsPaletteColor(color) {
		r.corrupt(keyTextColorPref, fmt.Errorf("unknown color %q", color))
		return models.DefaultTextColor
	}
	return color
}

func (r *boltStateRepository) SaveMicroSentenceIndex(ctx context.Context, index int) error {
	return r.put(ctx, keyMicroIndex, []byte(strconv.Itoa(index)))
}

func (r *boltStateRepository) LoadMicroSentenceIndex(ctx context.Context) int {
	raw, ok := r.get(ctx, keyMicroIndex)
	if !ok || raw == nil {
		return 0
	}
	index, err := decodeCounter(raw)
	if err != nil {
		r.corrupt(keyMicroIndex, err)
		return 0
	}
	return int(index)
}

// ClearAll стирает все ключи состояния одной транзакцией.
func (r *boltStateRepository) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return r.fail("all", fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err))
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		for _, key := range []string{keyLogs, keyCreature, keySafety, keyCustomization, keyMicroIndex, keyTextColorPref, keyProbe} {
			if err := bucket.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.fail("all", classifyWriteError(err))
	}
	r.setLastError(nil)
	return nil
}

// Available сообщает, доступно ли хранилище для записи прямо сейчас.
func (r *boltStateRepository) Available() bool {
	return r.probe() == nil
}

// LastError возвращает последнюю ошибку записи этого экземпляра.
func (r *boltStateRepository) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *boltStateRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// put выполняет пробную запись и затем пишет значение под ключ. Ошибка
// классифицируется, запоминается для LastError и возвращается вызывающему.
func (r *boltStateRepository) put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return r.fail(key, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err))
	}
	if err := r.probe(); err != nil {
		return r.fail(key, err)
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), value)
	})
	if err != nil {
		return r.fail(key, classifyWriteError(err))
	}
	r.setLastError(nil)
	return nil
}

// get читает сырое значение ключа. Отсутствие ключа не ошибка: вернётся
// (nil, true). Сбой самого чтения даёт (nil, false) с записью в журнал.
func (r *boltStateRepository) get(ctx context.Context, key string) ([]byte, bool) {
	if err := ctx.Err(); err != nil {
		r.logger.Warn("State read cancelled", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var value []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketState).Get([]byte(key))
		if raw != nil {
			value = make([]byte, len(raw))
			copy(value, raw)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("State read failed, falling back to default",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, true
}

// probe проверяет, что хранилище доступно для записи: пробная пара
// запись/удаление под служебным ключом.
func (r *boltStateRepository) probe() error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if err := bucket.Put([]byte(keyProbe), []byte("1")); err != nil {
			return err
		}
		return bucket.Delete([]byte(keyProbe))
	})
	if err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// corrupt фиксирует повреждённое содержимое ключа. Вызывающему уже ушло
// значение по умолчанию, поэтому дальше повреждения идут только в журнал.
func (r *boltStateRepository) corrupt(key string, reason error) {
	r.logger.Warn("Stored record is corrupt, falling back to default",
		zap.String("key", key),
		zap.Error(fmt.Errorf("%w: %v", models.ErrStoreCorrupt, reason)))
}

func (r *boltStateRepository) fail(key string, err error) error {
	r.setLastError(err)
	r.logger.Error("State write failed", zap.String("key", key), zap.Error(err))
	return err
}

func (r *boltStateRepository) setLastError(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

// classifyWriteError переводит низкоуровневую ошибку записи в таксономию
// хранилища: недоступно, переполнено или общий сбой записи.
func classifyWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bbolt.ErrDatabaseNotOpen) || errors.Is(err, bbolt.ErrDatabaseReadOnly) || errors.Is(err, bbolt.ErrTxClosed):
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	case errors.Is(err, syscall.ENOSPC) || strings.Contains(err.Error(), "no space left on device"):
		return fmt.Errorf("%w: %v", models.ErrStoreFull, err)
	default:
		return fmt.Errorf("store write failed: %w", err)
	}
}
