package biometric

import (
	"context"
	"sync"
	"time"

	"presenza.io/application/utils"
	"presenza.io/infrastructure/biometric/types"
	"presenza.io/infrastructure/logger"
)

// SessionManager orchestrates the multi-sample enrollment state machine:
// active -> completed | cancelled. It exclusively owns in-progress sessions;
// once a session completes its samples become the identity's permanent
// record and the session is inert history.
type SessionManager struct {
	store    Store
	assessor *Assessor
	checker  *UniquenessChecker
	cfg      Config

	mu         sync.Mutex
	sessions   map[string]*sync.Mutex
	identities map[string]*sync.Mutex
	// enrollMu serializes the final uniqueness check and promotion so two
	// concurrent enrollments cannot both claim overlapping faces.
	enrollMu sync.Mutex
}

func NewSessionManager(store Store, assessor *Assessor, checker *UniquenessChecker, cfg Config) *SessionManager {
	return &SessionManager{
		store:      store,
		assessor:   assessor,
		checker:    checker,
		cfg:        cfg,
		sessions:   map[string]*sync.Mutex{},
		identities: map[string]*sync.Mutex{},
	}
}

func (m *SessionManager) sessionLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.sessions[sessionID] = lock
	}
	return lock
}

func (m *SessionManager) releaseLock(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// identityLock serializes Start per identity. Without it two concurrent
// Starts both pass the active-session check before either has created one,
// minting two active sessions for the same student. Entries are never
// deleted: dropping one while a holder is inside the critical section would
// hand a later caller a fresh mutex and reopen the race.
func (m *SessionManager) identityLock(identityID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.identities[identityID]
	if !ok {
		lock = &sync.Mutex{}
		m.identities[identityID] = lock
	}
	return lock
}

// Start opens a new enrollment session for the identity. An identity with a
// completed, non-superseded record is rejected unless reenroll is set; a
// re-enrollment only retires the prior record at finalize time, so a
// cancelled re-enrollment leaves the old record untouched.
func (m *SessionManager) Start(ctx context.Context, identityID string, reenroll bool) (*types.SessionRecord, error) {
	lock := m.identityLock(identityID)
	lock.Lock()
	defer lock.Unlock()

	active, err := m.store.FindActiveSessionByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveSessionExists
	}

	if !reenroll {
		enrolled, err := m.store.HasCompletedRecord(ctx, identityID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, &AlreadyEnrolledError{IdentityID: identityID}
		}
	}

	now := time.Now()
	session := &types.SessionRecord{
		SessionID:      utils.GenerateULIDString(),
		IdentityID:     identityID,
		State:          types.SessionActive,
		RequiredAngles: append([]types.CaptureAngle{}, m.cfg.RequiredAngles...),
		Samples:        []types.StoredSample{},
		Reenrollment:   reenroll,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("enrollment session started", logger.LoggerOptions{
		Key:  "sessionID",
		Data: session.SessionID,
	}, logger.LoggerOptions{
		Key:  "identityID",
		Data: identityID,
	})
	return session, nil
}

// AddSample runs a capture through the full gate: quality assessment,
// normalization, cross-identity uniqueness. A sample for an angle that was
// already captured replaces the old one; an identity contributes at most one
// sample per required angle, so retrying an angle is idempotent.
func (m *SessionManager) AddSample(ctx context.Context, sessionID string, capture types.Capture) (*types.CoverageStatus, error) {
	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.State != types.SessionActive {
		return nil, ErrSessionNotActive
	}

	targetAngle := capture.TargetAngle
	if targetAngle == "" {
		targetAngle = types.AngleFront
	}

	assessment := m.assessor.Assess(capture, targetAngle)
	if !assessment.IsValid {
		return nil, &QualityError{Assessment: assessment}
	}

	normalized, err := Normalize(capture.Descriptor)
	if err != nil {
		return nil, err
	}

	uniqueness, err := m.checker.CheckUniqueness(ctx, normalized, session.IdentityID)
	if err != nil {
		return nil, err
	}
	if uniqueness.IsDuplicate {
		return nil, &DuplicateIdentityError{
			ConflictingIdentityID: uniqueness.ConflictingIdentityID,
			Distance:              uniqueness.Distance,
		}
	}

	capturedAt := capture.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	sample := types.StoredSample{
		Descriptor:   normalized,
		Angle:        targetAngle,
		QualityScore: assessment.OverallScore,
		CapturedAt:   capturedAt,
	}

	replaced := false
	for i := range session.Samples {
		if session.Samples[i].Angle == targetAngle {
			session.Samples[i] = sample
			replaced = true
			break
		}
	}
	if !replaced {
		session.Samples = append(session.Samples, sample)
	}

	now := time.Now()
	if err := m.store.SaveSessionSamples(ctx, sessionID, session.Samples, now); err != nil {
		return nil, err
	}

	return m.coverage(session), nil
}

// Complete finalizes the session. The promotion retires any previously
// finalized record for the identity and installs this session's samples as
// the permanent record in one atomic step; old samples are retired, never
// merged.
func (m *SessionManager) Complete(ctx context.Context, sessionID string) (*types.EnrollmentSummary, error) {
	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.State != types.SessionActive {
		return nil, ErrSessionNotActive
	}

	missing := missingAngles(session)
	if len(missing) > 0 {
		return nil, &IncompleteCoverageError{Missing: missing}
	}

	var aggregate float64
	for _, sample := range session.Samples {
		aggregate += sample.QualityScore
	}
	aggregate /= float64(len(session.Samples))

	// Re-check uniqueness under the enrollment lock right before the commit
	// so no conflicting sample slipped in between AddSample and now.
	m.enrollMu.Lock()
	defer m.enrollMu.Unlock()
	for _, sample := range session.Samples {
		uniqueness, err := m.checker.CheckUniqueness(ctx, sample.Descriptor, session.IdentityID)
		if err != nil {
			return nil, err
		}
		if uniqueness.IsDuplicate {
			return nil, &DuplicateIdentityError{
				ConflictingIdentityID: uniqueness.ConflictingIdentityID,
				Distance:              uniqueness.Distance,
			}
		}
	}

	completedAt := time.Now()
	err = m.store.PromoteSessionSamples(ctx, session.IdentityID, sessionID, session.Samples, aggregate, completedAt)
	if err != nil {
		return nil, err
	}
	m.releaseLock(sessionID)

	logger.Info("enrollment completed", logger.LoggerOptions{
		Key:  "identityID",
		Data: session.IdentityID,
	}, logger.LoggerOptions{
		Key:  "aggregateQuality",
		Data: aggregate,
	})

	return &types.EnrollmentSummary{
		SessionID:        sessionID,
		IdentityID:       session.IdentityID,
		SampleCount:      len(session.Samples),
		AggregateQuality: aggregate,
		CompletedAt:      completedAt,
	}, nil
}

// Cancel discards the session and every sample in it. A previously finalized
// record is unaffected.
func (m *SessionManager) Cancel(ctx context.Context, sessionID string) error {
	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.FindSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.State != types.SessionActive {
		return ErrSessionNotActive
	}
	if err := m.store.MarkSessionState(ctx, sessionID, types.SessionCancelled, nil); err != nil {
		return err
	}
	m.releaseLock(sessionID)
	return nil
}

func (m *SessionManager) coverage(session *types.SessionRecord) *types.CoverageStatus {
	status := &types.CoverageStatus{
		SessionID: session.SessionID,
		Captured:  []types.CaptureAngle{},
		Remaining: []types.CaptureAngle{},
	}
	for _, required := range session.RequiredAngles {
		captured := false
		for _, sample := range session.Samples {
			if sample.Angle == required {
				captured = true
				break
			}
		}
		if captured {
			status.Captured = append(status.Captured, required)
		} else {
			status.Remaining = append(status.Remaining, required)
		}
	}
	status.Complete = len(status.Remaining) == 0
	return status
}

func missingAngles(session *types.SessionRecord) []types.CaptureAngle {
	missing := []types.CaptureAngle{}
	for _, required := range session.RequiredAngles {
		found := false
		for _, sample := range session.Samples {
			if sample.Angle == required {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	return missing
}
