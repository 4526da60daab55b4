// Package collector accumulates user records across a run, keeping only the
// first record seen for any account id or display name.
package collector

import (
	"sync"

	"jirarecon/pkg/models"
)

// Collector holds admitted users in first-insertion order.
//
// A record is rejected when its accountId OR its displayName was already
// admitted. Two people sharing a display name therefore collapse into the
// first one seen.
type Collector struct {
	mu           sync.Mutex
	users        []models.UserRecord
	seenAccounts map[string]struct{}
	seenNames    map[string]struct{}
}

// New creates an empty collector
func New() *Collector {
	return &Collector{
		seenAccounts: make(map[string]struct{}),
		seenNames:    make(map[string]struct{}),
	}
}

// Admit inserts rec unless either identity key was seen before or is empty.
// It reports whether the record was inserted.
func (c *Collector) Admit(rec models.UserRecord) bool {
	if rec.AccountID == "" || rec.DisplayName == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, seen := c.seenAccounts[rec.AccountID]; seen {
		return false
	}
	if _, seen := c.seenNames[rec.DisplayName]; seen {
		return false
	}

	c.users = append(c.users, rec)
	c.seenAccounts[rec.AccountID] = struct{}{}
	c.seenNames[rec.DisplayName] = struct{}{}
	return true
}

// AdmitAll admits records in order and returns the ones that were inserted
func (c *Collector) AdmitAll(records []models.UserRecord) []models.UserRecord {
	var admitted []models.UserRecord
	for _, rec := range records {
		if c.Admit(rec) {
			admitted = append(admitted, rec)
		}
	}
	return admitted
}

// Users returns a copy of the admitted records in insertion order
func (c *Collector) Users() []models.UserRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.UserRecord, len(c.users))
	copy(out, c.users)
	return out
}

// Len returns the number of admitted records
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}
