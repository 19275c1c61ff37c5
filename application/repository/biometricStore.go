package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"presenza.io/entities"
	"presenza.io/infrastructure/biometric"
	"presenza.io/infrastructure/biometric/types"
	"presenza.io/infrastructure/database/connection/datastore"
	mongoRepo "presenza.io/infrastructure/database/repository/mongo"
	"presenza.io/infrastructure/logger"
)

var biometricStoreOnce = sync.Once{}

var biometricStore *BiometricStoreRepository

// BiometricStoreRepository backs the biometric engine with the student and
// enrollment session collections. The engine only ever sees this interface;
// all mongo specifics stay here.
type BiometricStoreRepository struct{}

func BiometricStore() *BiometricStoreRepository {
	biometricStoreOnce.Do(func() {
		biometricStore = &BiometricStoreRepository{}
	})
	return biometricStore
}

func sessionEntityToRecord(session *entities.EnrollmentSession) *types.SessionRecord {
	return &types.SessionRecord{
		SessionID:      session.ID,
		IdentityID:     session.IdentityID,
		State:          session.State,
		RequiredAngles: session.RequiredAngles,
		Samples:        session.Samples,
		Reenrollment:   session.Reenrollment,
		StartedAt:      session.StartedAt,
		LastActivityAt: session.LastActivityAt,
		CompletedAt:    session.CompletedAt,
	}
}

func (store *BiometricStoreRepository) FindSession(ctx context.Context, sessionID string) (*types.SessionRecord, error) {
	session, err := EnrollmentSessionRepo().FindByID(sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	return sessionEntityToRecord(session), nil
}

func (store *BiometricStoreRepository) FindActiveSessionByIdentity(ctx context.Context, identityID string) (*types.SessionRecord, error) {
	session, err := EnrollmentSessionRepo().FindOneByField(map[string]any{
		"identityID": identityID,
		"state":      types.SessionActive,
	})
	if err != nil || session == nil {
		return nil, err
	}
	return sessionEntityToRecord(session), nil
}

func (store *BiometricStoreRepository) CreateSession(ctx context.Context, session *types.SessionRecord) error {
	_, err := EnrollmentSessionRepo().CreateOne(ctx, entities.EnrollmentSession{
		ID:             session.SessionID,
		IdentityID:     session.IdentityID,
		State:          session.State,
		RequiredAngles: session.RequiredAngles,
		Samples:        session.Samples,
		Reenrollment:   session.Reenrollment,
		StartedAt:      session.StartedAt,
		LastActivityAt: session.LastActivityAt,
	})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// the partial unique index on active sessions caught a concurrent
		// start from another instance
		return biometric.ErrActiveSessionExists
	}
	return err
}

func (store *BiometricStoreRepository) SaveSessionSamples(ctx context.Context, sessionID string, samples []types.StoredSample, lastActivityAt time.Time) error {
	_, err := EnrollmentSessionRepo().UpdatePartialByID(ctx, sessionID, map[string]any{
		"samples":        samples,
		"lastActivityAt": lastActivityAt,
	})
	return err
}

func (store *BiometricStoreRepository) MarkSessionState(ctx context.Context, sessionID string, state types.SessionState, completedAt *time.Time) error {
	payload := map[string]any{
		"state": state,
	}
	if completedAt != nil {
		payload["completedAt"] = completedAt
	}
	_, err := EnrollmentSessionRepo().UpdatePartialByID(ctx, sessionID, payload)
	return err
}

// PromoteSessionSamples installs a finalized sample set as the student's
// biometric record and marks the session completed in a single transaction.
// Any prior record (multi-sample or legacy) is retired by the overwrite.
func (store *BiometricStoreRepository) PromoteSessionSamples(ctx context.Context, identityID string, sessionID string, samples []types.StoredSample, aggregateQuality float64, completedAt time.Time) error {
	record := entities.BiometricRecord{
		Samples:          samples,
		AggregateQuality: aggregateQuality,
		SessionID:        sessionID,
		EnrolledAt:       completedAt,
	}
	now := time.Now()

	dbSession, err := datastore.Client.StartSession()
	if err != nil {
		logger.Error("could not start mongo session for sample promotion", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	defer dbSession.EndSession(ctx)

	_, err = dbSession.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := datastore.StudentModel.UpdateOne(sc, bson.M{"_id": identityID}, bson.M{
			"$set": bson.M{
				"biometricRecord":  record,
				"legacyDescriptor": nil,
				"updatedAt":        now,
			},
		})
		if err != nil {
			return nil, err
		}
		_, err = datastore.EnrollmentSessionModel.UpdateOne(sc, bson.M{"_id": sessionID}, bson.M{
			"$set": bson.M{
				"state":       types.SessionCompleted,
				"completedAt": completedAt,
				"updatedAt":   now,
			},
		})
		return nil, err
	})
	if err != nil {
		logger.Error("sample promotion transaction failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "identityID",
			Data: identityID,
		})
	}
	return err
}

func (store *BiometricStoreRepository) HasCompletedRecord(ctx context.Context, identityID string) (bool, error) {
	count, err := StudentRepo().CountDocs(map[string]any{
		"_id":             identityID,
		"biometricRecord": map[string]any{"$ne": nil},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (store *BiometricStoreRepository) SamplesByIdentity(ctx context.Context, identityID string) ([]types.StoredSample, error) {
	var projection interface{} = map[string]any{"biometricRecord": 1}
	student, err := StudentRepo().FindByID(identityID, mongoRepo.FindOptions{
		Projection: &projection,
	})
	if err != nil || student == nil {
		return nil, err
	}
	if student.BiometricRecord == nil {
		return nil, nil
	}
	return student.BiometricRecord.Samples, nil
}

func (store *BiometricStoreRepository) SamplesExcludingIdentity(ctx context.Context, identityID string) ([]types.IdentitySample, error) {
	// deactivated students stay in the scan so a returning student cannot
	// enroll twice under a new name
	filter := map[string]any{
		"biometricRecord": map[string]any{"$ne": nil},
	}
	if identityID != "" {
		filter["_id"] = map[string]any{"$ne": identityID}
	}
	var projection interface{} = map[string]any{"biometricRecord": 1}
	students, err := StudentRepo().FindMany(filter, mongoRepo.FindOptions{
		Projection: &projection,
	})
	if err != nil {
		return nil, err
	}
	population := []types.IdentitySample{}
	for _, student := range *students {
		if student.BiometricRecord == nil {
			continue
		}
		for _, sample := range student.BiometricRecord.Samples {
			population = append(population, types.IdentitySample{
				IdentityID: student.ID,
				Sample:     sample,
			})
		}
	}
	return population, nil
}

func (store *BiometricStoreRepository) LegacyDescriptor(ctx context.Context, identityID string) ([]float64, error) {
	var projection interface{} = map[string]any{"legacyDescriptor": 1}
	student, err := StudentRepo().FindByID(identityID, mongoRepo.FindOptions{
		Projection: &projection,
	})
	if err != nil || student == nil {
		return nil, err
	}
	return student.LegacyDescriptor, nil
}

// attemptEntity keeps the engine-supplied decision time; createdAt only says
// when the insert happened.
func attemptEntity(attempt types.VerificationAttempt) entities.VerificationAttempt {
	attemptedAt := attempt.Timestamp
	if attemptedAt.IsZero() {
		attemptedAt = time.Now()
	}
	return entities.VerificationAttempt{
		IdentityClaimed: attempt.IdentityClaimed,
		Succeeded:       attempt.Succeeded,
		Confidence:      attempt.Confidence,
		Method:          attempt.Method,
		AttemptedAt:     attemptedAt,
	}
}

func (store *BiometricStoreRepository) AppendAttempt(ctx context.Context, attempt types.VerificationAttempt) error {
	_, err := VerificationAttemptRepo().CreateOne(ctx, attemptEntity(attempt))
	return err
}
