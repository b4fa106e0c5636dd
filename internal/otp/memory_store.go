package otp

import (
	"context"
	"sync"
	"time"

	"github.com/apaaranddhruv/satsang/pkg/models"
)

// MemoryStore keeps OTP records in a process-local map.
// Expired records linger until the sweeper removes them; Get does not
// filter by expiry because the service decides what expiry means.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]models.OTPRecord
}

// NewMemoryStore creates an empty in-memory OTP store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recs: make(map[string]models.OTPRecord),
	}
}

// Get returns the record for an email, or nil if none exists
func (m *MemoryStore) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recs[email]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record, replacing any prior one
func (m *MemoryStore) Put(ctx context.Context, rec *models.OTPRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recs[rec.Email] = *rec
	return nil
}

// Delete removes the record for an email, if any
func (m *MemoryStore) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.recs, email)
	return nil
}

// All returns every stored record
func (m *MemoryStore) All(ctx context.Context) ([]*models.OTPRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.OTPRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		r := rec
		out = append(out, &r)
	}
	return out, nil
}
