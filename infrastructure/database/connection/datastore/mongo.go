package datastore

import (
	"context"
	"os"
	"time"

	"presenza.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	StudentModel             *mongo.Collection
	EnrollmentSessionModel   *mongo.Collection
	VerificationAttemptModel *mongo.Collection
	AttendanceRecordModel    *mongo.Collection
	StaffModel               *mongo.Collection
	AuditLogModel            *mongo.Collection
)

var cancelConnection *context.CancelFunc

func ConnectToDatabase() {
	cancelConnection = connectMongo()
}

func CleanUp() {
	if cancelConnection != nil {
		(*cancelConnection)()
	}
	if Client != nil {
		Client.Disconnect(context.Background())
	}
}

func connectMongo() *context.CancelFunc {
	url := os.Getenv("DB_URL")

	if url == "" {
		logger.Error("mongo url missing")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return &cancel
	}
	Client = client

	db := client.Database(os.Getenv("DB_NAME"))
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
	return &cancel
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	StudentModel = db.Collection("Students")
	StudentModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "grade", Value: 1}},
		Options: options.Index(),
	}})

	EnrollmentSessionModel = db.Collection("EnrollmentSessions")
	EnrollmentSessionModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		// one active session per identity, enforced by the database even
		// when two instances race the in-process check
		Keys: bson.D{{Key: "identityID", Value: 1}},
		Options: options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{"state": "active"}),
	}, {
		Keys:    bson.D{{Key: "lastActivityAt", Value: 1}},
		Options: options.Index(),
	}})

	VerificationAttemptModel = db.Collection("VerificationAttempts")
	VerificationAttemptModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "identityClaimed", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index(),
	}})

	AttendanceRecordModel = db.Collection("AttendanceRecords")
	AttendanceRecordModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "studentID", Value: 1}, {Key: "day", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	StaffModel = db.Collection("Staff")
	StaffModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	AuditLogModel = db.Collection("AuditLogs")

	logger.Info("mongodb indexes set up successfully")
}
