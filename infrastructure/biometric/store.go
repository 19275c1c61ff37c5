package biometric

import (
	"context"
	"time"

	"presenza.io/infrastructure/biometric/types"
)

// Store is the engine's only boundary with persistence. The engine never
// touches a database handle directly; the concrete implementation lives in
// the repository layer and is injected at startup.
type Store interface {
	// sessions
	FindSession(ctx context.Context, sessionID string) (*types.SessionRecord, error)
	FindActiveSessionByIdentity(ctx context.Context, identityID string) (*types.SessionRecord, error)
	CreateSession(ctx context.Context, session *types.SessionRecord) error
	SaveSessionSamples(ctx context.Context, sessionID string, samples []types.StoredSample, lastActivityAt time.Time) error
	MarkSessionState(ctx context.Context, sessionID string, state types.SessionState, completedAt *time.Time) error

	// finalized records. PromoteSessionSamples must atomically retire any
	// prior record for the identity, install the session's samples as the
	// permanent record and mark the session completed.
	PromoteSessionSamples(ctx context.Context, identityID string, sessionID string, samples []types.StoredSample, aggregateQuality float64, completedAt time.Time) error
	HasCompletedRecord(ctx context.Context, identityID string) (bool, error)
	SamplesByIdentity(ctx context.Context, identityID string) ([]types.StoredSample, error)
	SamplesExcludingIdentity(ctx context.Context, identityID string) ([]types.IdentitySample, error)

	// LegacyDescriptor returns the single pre-multi-sample descriptor for an
	// identity, or nil if none exists.
	LegacyDescriptor(ctx context.Context, identityID string) ([]float64, error)

	// append-only verification audit log
	AppendAttempt(ctx context.Context, attempt types.VerificationAttempt) error
}
