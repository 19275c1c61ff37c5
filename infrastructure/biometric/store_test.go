package biometric

import (
	"context"
	"sync"
	"time"

	"presenza.io/infrastructure/biometric/types"
)

// memoryStore is an in-memory Store used across the package tests.
type memoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*types.SessionRecord
	records   map[string][]types.StoredSample
	legacy    map[string][]float64
	attempts  []types.VerificationAttempt
	appendErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: map[string]*types.SessionRecord{},
		records:  map[string][]types.StoredSample{},
		legacy:   map[string][]float64{},
	}
}

func (s *memoryStore) FindSession(ctx context.Context, sessionID string) (*types.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.Samples = append([]types.StoredSample{}, session.Samples...)
	return &copied, nil
}

// activeSessionCount reports how many active sessions an identity holds,
// which must never exceed one.
func (s *memoryStore) activeSessionCount(identityID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, session := range s.sessions {
		if session.IdentityID == identityID && session.State == types.SessionActive {
			count++
		}
	}
	return count
}

func (s *memoryStore) FindActiveSessionByIdentity(ctx context.Context, identityID string) (*types.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.IdentityID == identityID && session.State == types.SessionActive {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) CreateSession(ctx context.Context, session *types.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.SessionID] = &copied
	return nil
}

func (s *memoryStore) SaveSessionSamples(ctx context.Context, sessionID string, samples []types.StoredSample, lastActivityAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[sessionID]
	session.Samples = append([]types.StoredSample{}, samples...)
	session.LastActivityAt = lastActivityAt
	return nil
}

func (s *memoryStore) MarkSessionState(ctx context.Context, sessionID string, state types.SessionState, completedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[sessionID]
	session.State = state
	session.CompletedAt = completedAt
	return nil
}

func (s *memoryStore) PromoteSessionSamples(ctx context.Context, identityID string, sessionID string, samples []types.StoredSample, aggregateQuality float64, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[identityID] = append([]types.StoredSample{}, samples...)
	delete(s.legacy, identityID)
	session := s.sessions[sessionID]
	session.State = types.SessionCompleted
	session.CompletedAt = &completedAt
	return nil
}

func (s *memoryStore) HasCompletedRecord(ctx context.Context, identityID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[identityID]
	return ok, nil
}

func (s *memoryStore) SamplesByIdentity(ctx context.Context, identityID string) ([]types.StoredSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.StoredSample{}, s.records[identityID]...), nil
}

func (s *memoryStore) SamplesExcludingIdentity(ctx context.Context, identityID string) ([]types.IdentitySample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	population := []types.IdentitySample{}
	for id, samples := range s.records {
		if id == identityID {
			continue
		}
		for _, sample := range samples {
			population = append(population, types.IdentitySample{IdentityID: id, Sample: sample})
		}
	}
	return population, nil
}

func (s *memoryStore) LegacyDescriptor(ctx context.Context, identityID string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.legacy[identityID], nil
}

// laggedReadStore widens the window between the active-session check and the
// session insert so unserialized Start callers would interleave.
type laggedReadStore struct {
	*memoryStore
}

func (s *laggedReadStore) FindActiveSessionByIdentity(ctx context.Context, identityID string) (*types.SessionRecord, error) {
	time.Sleep(20 * time.Millisecond)
	return s.memoryStore.FindActiveSessionByIdentity(ctx, identityID)
}

func (s *memoryStore) AppendAttempt(ctx context.Context, attempt types.VerificationAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.attempts = append(s.attempts, attempt)
	return nil
}
