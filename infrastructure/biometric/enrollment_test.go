package biometric

import (
	"context"
	"errors"
	"math"
	"testing"

	"presenza.io/infrastructure/biometric/types"
)

func enrollmentCapture(angle types.CaptureAngle, descriptor []float64) types.Capture {
	signals := goodSignals()
	switch angle {
	case types.AngleLeft:
		signals.Yaw = -20
	case types.AngleRight:
		signals.Yaw = 20
	}
	return types.Capture{
		Descriptor:  descriptor,
		TargetAngle: angle,
		Signals:     signals,
	}
}

func newTestEngine(store Store) *Engine {
	return NewEngine(store, DefaultConfig())
}

// enrollIdentity runs a full three-angle enrollment for tests that need a
// populated record.
func enrollIdentity(t *testing.T, engine *Engine, identityID string, descriptor []float64) *types.EnrollmentSummary {
	t.Helper()
	ctx := context.Background()
	session, err := engine.Sessions.Start(ctx, identityID, false)
	if err != nil {
		t.Fatalf("Start(%s): %v", identityID, err)
	}
	for _, angle := range []types.CaptureAngle{types.AngleFront, types.AngleLeft, types.AngleRight} {
		if _, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(angle, descriptor)); err != nil {
			t.Fatalf("AddSample(%s, %s): %v", identityID, angle, err)
		}
	}
	summary, err := engine.Sessions.Complete(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("Complete(%s): %v", identityID, err)
	}
	return summary
}

func TestSessionStart(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an active session", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, err := engine.Sessions.Start(ctx, "student-1", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.State != types.SessionActive {
			t.Errorf("state = %s, want active", session.State)
		}
		if len(session.RequiredAngles) != 3 {
			t.Errorf("required angles = %v, want 3 angles", session.RequiredAngles)
		}
	})

	t.Run("rejects a second concurrent session", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		if _, err := engine.Sessions.Start(ctx, "student-1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := engine.Sessions.Start(ctx, "student-1", false)
		if !errors.Is(err, ErrActiveSessionExists) {
			t.Errorf("error = %v, want ErrActiveSessionExists", err)
		}
	})

	t.Run("simultaneous starts mint a single active session", func(t *testing.T) {
		store := &laggedReadStore{memoryStore: newMemoryStore()}
		engine := newTestEngine(store)

		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := engine.Sessions.Start(ctx, "student-1", false)
				results <- err
			}()
		}

		rejected := 0
		for i := 0; i < 2; i++ {
			if err := <-results; err != nil {
				if !errors.Is(err, ErrActiveSessionExists) {
					t.Errorf("error = %v, want ErrActiveSessionExists", err)
				}
				rejected++
			}
		}
		if rejected != 1 {
			t.Errorf("rejected starts = %d, want exactly 1", rejected)
		}
		if count := store.activeSessionCount("student-1"); count != 1 {
			t.Errorf("active sessions = %d, want 1", count)
		}
	})

	t.Run("rejects enrolled identity without reenroll", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		_, err := engine.Sessions.Start(ctx, "student-1", false)
		var alreadyEnrolled *AlreadyEnrolledError
		if !errors.As(err, &alreadyEnrolled) {
			t.Fatalf("error = %v, want AlreadyEnrolledError", err)
		}
		if alreadyEnrolled.IdentityID != "student-1" {
			t.Errorf("IdentityID = %s, want student-1", alreadyEnrolled.IdentityID)
		}
	})

	t.Run("reenroll bypasses the enrolled check", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		if _, err := engine.Sessions.Start(ctx, "student-1", true); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAddSample(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted sample reports coverage", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)

		coverage, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(coverage.Captured) != 1 || coverage.Captured[0] != types.AngleFront {
			t.Errorf("captured = %v, want [FRONT]", coverage.Captured)
		}
		if len(coverage.Remaining) != 2 {
			t.Errorf("remaining = %v, want 2 angles", coverage.Remaining)
		}
		if coverage.Complete {
			t.Error("coverage reported complete after one of three angles")
		}
	})

	t.Run("angles can arrive in any order", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)

		for _, angle := range []types.CaptureAngle{types.AngleRight, types.AngleFront, types.AngleLeft} {
			if _, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(angle, basisDescriptor(0))); err != nil {
				t.Fatalf("AddSample(%s): %v", angle, err)
			}
		}
		record, _ := engine.Sessions.store.FindSession(ctx, session.SessionID)
		if len(record.Samples) != 3 {
			t.Errorf("sample count = %d, want 3", len(record.Samples))
		}
	})

	t.Run("retrying an angle replaces the sample", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)

		first := enrollmentCapture(types.AngleFront, basisDescriptor(0))
		if _, err := engine.Sessions.AddSample(ctx, session.SessionID, first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		retry := enrollmentCapture(types.AngleFront, basisDescriptor(0))
		retry.Signals.BlurVariance = 200 // slightly softer retake
		coverage, err := engine.Sessions.AddSample(ctx, session.SessionID, retry)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(coverage.Captured) != 1 {
			t.Errorf("captured = %v, want a single FRONT entry", coverage.Captured)
		}
		record, _ := engine.Sessions.store.FindSession(ctx, session.SessionID)
		if len(record.Samples) != 1 {
			t.Fatalf("sample count = %d, want 1 after replacement", len(record.Samples))
		}
	})

	t.Run("quality gate rejects with full assessment", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)

		capture := enrollmentCapture(types.AngleFront, basisDescriptor(0))
		capture.Signals.BlurVariance = 10
		capture.Signals.Brightness = 20
		capture.Signals.DetectionConfidence = 0.5

		_, err := engine.Sessions.AddSample(ctx, session.SessionID, capture)
		var qualityErr *QualityError
		if !errors.As(err, &qualityErr) {
			t.Fatalf("error = %v, want QualityError", err)
		}
		if len(qualityErr.Assessment.Issues) == 0 {
			t.Error("quality error carries no issues")
		}
		record, _ := engine.Sessions.store.FindSession(ctx, session.SessionID)
		if len(record.Samples) != 0 {
			t.Error("rejected sample was persisted")
		}
	})

	t.Run("cross-identity duplicate rejected", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		session, _ := engine.Sessions.Start(ctx, "student-2", false)
		_, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(0)))
		var duplicateErr *DuplicateIdentityError
		if !errors.As(err, &duplicateErr) {
			t.Fatalf("error = %v, want DuplicateIdentityError", err)
		}
		if duplicateErr.ConflictingIdentityID != "student-1" {
			t.Errorf("conflicting identity = %s, want student-1", duplicateErr.ConflictingIdentityID)
		}
	})

	t.Run("rejects samples for inactive sessions", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)
		if err := engine.Sessions.Cancel(ctx, session.SessionID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(0)))
		if !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("error = %v, want ErrSessionNotActive", err)
		}
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects incomplete coverage", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)
		engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(0)))

		_, err := engine.Sessions.Complete(ctx, session.SessionID)
		var coverageErr *IncompleteCoverageError
		if !errors.As(err, &coverageErr) {
			t.Fatalf("error = %v, want IncompleteCoverageError", err)
		}
		if len(coverageErr.Missing) != 2 {
			t.Errorf("missing = %v, want LEFT and RIGHT", coverageErr.Missing)
		}
	})

	t.Run("promotes samples and reports aggregate quality", func(t *testing.T) {
		store := newMemoryStore()
		engine := newTestEngine(store)
		summary := enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		if summary.SampleCount != 3 {
			t.Errorf("sample count = %d, want 3", summary.SampleCount)
		}
		if summary.AggregateQuality < 0.7 || summary.AggregateQuality > 1 {
			t.Errorf("aggregate quality = %f, want within (0.7, 1]", summary.AggregateQuality)
		}

		record, _ := store.SamplesByIdentity(ctx, "student-1")
		if len(record) != 3 {
			t.Fatalf("promoted samples = %d, want 3", len(record))
		}
		for _, sample := range record {
			var sumSquares float64
			for _, v := range sample.Descriptor {
				sumSquares += v * v
			}
			if math.Abs(math.Sqrt(sumSquares)-1) > 1e-9 {
				t.Errorf("stored %s sample is not unit length", sample.Angle)
			}
		}

		session, _ := store.FindSession(ctx, summary.SessionID)
		if session.State != types.SessionCompleted {
			t.Errorf("session state = %s, want completed", session.State)
		}
	})

	t.Run("completed session cannot be reused", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		summary := enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		_, err := engine.Sessions.Complete(ctx, summary.SessionID)
		if !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("error = %v, want ErrSessionNotActive", err)
		}
		_, err = engine.Sessions.AddSample(ctx, summary.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(0)))
		if !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("error = %v, want ErrSessionNotActive", err)
		}
	})

	t.Run("reenrollment replaces the prior record wholesale", func(t *testing.T) {
		store := newMemoryStore()
		engine := newTestEngine(store)
		enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		session, err := engine.Sessions.Start(ctx, "student-1", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		replacement := basisDescriptor(1)
		for _, angle := range []types.CaptureAngle{types.AngleFront, types.AngleLeft, types.AngleRight} {
			if _, err := engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(angle, replacement)); err != nil {
				t.Fatalf("AddSample(%s): %v", angle, err)
			}
		}
		if _, err := engine.Sessions.Complete(ctx, session.SessionID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		record, _ := store.SamplesByIdentity(ctx, "student-1")
		if len(record) != 3 {
			t.Fatalf("record size = %d, want 3 (replaced, not merged)", len(record))
		}
		normalizedReplacement, _ := Normalize(replacement)
		for _, sample := range record {
			if EuclideanDistance(sample.Descriptor, normalizedReplacement) > 1e-9 {
				t.Error("old samples survived the re-enrollment")
			}
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled reenrollment keeps the old record", func(t *testing.T) {
		store := newMemoryStore()
		engine := newTestEngine(store)
		enrollIdentity(t, engine, "student-1", basisDescriptor(0))

		session, _ := engine.Sessions.Start(ctx, "student-1", true)
		engine.Sessions.AddSample(ctx, session.SessionID, enrollmentCapture(types.AngleFront, basisDescriptor(1)))
		if err := engine.Sessions.Cancel(ctx, session.SessionID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		record, _ := store.SamplesByIdentity(ctx, "student-1")
		if len(record) != 3 {
			t.Errorf("record size = %d, want the original 3 samples", len(record))
		}
		original, _ := Normalize(basisDescriptor(0))
		if EuclideanDistance(record[0].Descriptor, original) > 1e-9 {
			t.Error("original record was modified by a cancelled re-enrollment")
		}
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		session, _ := engine.Sessions.Start(ctx, "student-1", false)
		if err := engine.Sessions.Cancel(ctx, session.SessionID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := engine.Sessions.Cancel(ctx, session.SessionID); !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("error = %v, want ErrSessionNotActive", err)
		}
	})

	t.Run("unknown session is not active", func(t *testing.T) {
		engine := newTestEngine(newMemoryStore())
		if err := engine.Sessions.Cancel(ctx, "nope"); !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("error = %v, want ErrSessionNotActive", err)
		}
	})
}
