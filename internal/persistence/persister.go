package persistence

import (
	"encoding/json"
	"errors"
	"math"

	"sattva/internal/logging"
)

const (
	// logPruneFraction is the share of the activity log dropped per quota
	// recovery attempt.
	logPruneFraction = 0.2
	// historyPruneThreshold is the tool history length above which history
	// lists are pruned during recovery.
	historyPruneThreshold = 10
)

// Persister serializes the application document to a KV store and recovers
// from quota errors by pruning the oldest activity-log entries and oversized
// tool histories before retrying. A write that still fails after recovery is
// logged and swallowed; in-memory state stays authoritative.
type Persister struct {
	kv     KV
	logger logging.Logger
}

// NewPersister wires a persister to its storage.
func NewPersister(kv KV, logger logging.Logger) *Persister {
	return &Persister{kv: kv, logger: logging.OrNop(logger)}
}

// Save writes doc under StorageKey. Returns nil in every case the caller
// can proceed from, which is all of them.
func (p *Persister) Save(doc Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		p.logger.Error("persist: marshal failed: %v", err)
		return
	}
	err = p.kv.SetItem(StorageKey, data)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		p.logger.Error("persist: write failed: %v", err)
		return
	}

	p.logger.Warn("persist: quota exceeded, pruning and retrying")
	pruned := Prune(doc)
	data, err = json.Marshal(pruned)
	if err != nil {
		p.logger.Error("persist: marshal of pruned document failed: %v", err)
		return
	}
	if err := p.kv.SetItem(StorageKey, data); err != nil {
		p.logger.Error("persist: write still failing after prune: %v", err)
	}
}

// Load reads the stored document. ok is false when nothing was stored or
// the blob cannot be decoded.
func (p *Persister) Load() (Document, bool) {
	data, err := p.kv.GetItem(StorageKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.Error("persist: read failed: %v", err)
		}
		return Document{}, false
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		p.logger.Error("persist: stored blob is corrupt, starting fresh: %v", err)
		return Document{}, false
	}
	return doc, true
}

// Reset removes the stored document.
func (p *Persister) Reset() {
	if err := p.kv.RemoveItem(StorageKey); err != nil {
		p.logger.Error("persist: reset failed: %v", err)
	}
}

// Prune drops the oldest ceil(20%) of the activity log (the log is ordered
// newest first, so entries fall off the tail) and the oldest 20% of any tool
// history list longer than ten entries.
func Prune(doc Document) Document {
	out := doc
	if n := len(doc.ActivityLog); n > 0 {
		drop := int(math.Ceil(float64(n) * logPruneFraction))
		out.ActivityLog = doc.ActivityLog[:n-drop]
	}
	if len(doc.ToolStates) > 0 {
		states := make(map[string]ToolState, len(doc.ToolStates))
		for id, ts := range doc.ToolStates {
			if n := len(ts.History); n > historyPruneThreshold {
				drop := int(math.Ceil(float64(n) * logPruneFraction))
				ts.History = ts.History[:n-drop]
			}
			states[id] = ts
		}
		out.ToolStates = states
	}
	return out
}
