// Package ledger is the append-only log of completed sales.
package ledger

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justindrp/middlemanPOS/internal/kvstore"
	"github.com/justindrp/middlemanPOS/internal/model"
	"github.com/justindrp/middlemanPOS/internal/obs"
)

// StorageKey is the key-value entry holding the transaction history.
const StorageKey = "transactions"

// dateLayout matches the locale-style timestamp the persisted records use.
const dateLayout = "1/2/2006, 3:04:05 PM"

// Ledger appends TransactionRecords and persists the full history after
// each append. Records are never mutated or removed.
type Ledger struct {
	kv  kvstore.Store
	seq Sequencer

	mu      sync.RWMutex
	records []model.TransactionRecord

	now func() time.Time
}

// New returns an empty ledger persisting to kv.
func New(kv kvstore.Store) *Ledger {
	return &Ledger{kv: kv, now: time.Now}
}

// Load rehydrates history from storage and advances the sequence counter
// past the highest stored record. Missing or corrupt data yields an empty
// ledger.
func (l *Ledger) Load() error {
	data, ok, err := l.kv.Get(StorageKey)
	if err != nil {
		obs.Logger.Warn("ledger_load_failed", "error", err)
		return err
	}
	if !ok {
		return nil
	}
	var records []model.TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		obs.Logger.Warn("ledger_snapshot_corrupt", "error", err)
		return nil
	}
	l.mu.Lock()
	l.records = records
	for _, r := range records {
		l.seq.AdvanceTo(r.Sequence)
	}
	l.mu.Unlock()
	return nil
}

// Append records a completed sale and persists the history. The record is
// returned with its assigned id, sequence, and timestamp.
func (l *Ledger) Append(items []model.TransactionItem, total float64) (model.TransactionRecord, error) {
	rec := model.TransactionRecord{
		ID:       uuid.NewString(),
		Sequence: l.seq.Next(),
		Date:     l.now().Format(dateLayout),
		Items:    items,
		Total:    total,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	if err := l.saveLocked(); err != nil {
		l.records = l.records[:len(l.records)-1]
		return model.TransactionRecord{}, err
	}
	return rec, nil
}

// List returns a copy of the recorded history, oldest first.
func (l *Ledger) List() []model.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *Ledger) saveLocked() error {
	data, err := json.Marshal(l.records)
	if err != nil {
		return err
	}
	return l.kv.Set(StorageKey, data)
}
