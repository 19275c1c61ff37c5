package mongo

import (
	"context"
	"errors"
	"time"

	"presenza.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	parsed := payload.ParseModel().(*T)
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := repo.Model.InsertOne(c, parsed)
	if err != nil {
		logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

func (repo *MongoRepository[T]) FindByID(id string, opts ...FindOptions) (*T, error) {
	return repo.FindOneByField(map[string]any{"_id": id}, opts...)
}

func (repo *MongoRepository[T]) FindOneByField(filter map[string]any, opts ...FindOptions) (*T, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	var result T
	err := repo.Model.FindOne(c, filter, parseFindOneOptions(opts)...).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByField", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindMany(filter map[string]any, opts ...FindOptions) (*[]T, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cursor, err := repo.Model.Find(c, filter, parseFindOptions(opts)...)
	if err != nil {
		logger.Error("mongo error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	results := []T{}
	if err := cursor.All(c, &results); err != nil {
		logger.Error("mongo error occured while decoding FindMany cursor", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &results, nil
}

func (repo *MongoRepository[T]) CountDocs(filter map[string]any) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	count, err := repo.Model.CountDocuments(c, filter)
	if err != nil {
		logger.Error("mongo error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return count, nil
}

func (repo *MongoRepository[T]) UpdatePartialByID(ctx context.Context, id string, payload map[string]any) (int64, error) {
	return repo.UpdatePartialByFilter(ctx, map[string]any{"_id": id}, payload)
}

func (repo *MongoRepository[T]) UpdatePartialByFilter(ctx context.Context, filter map[string]any, payload map[string]any) (int64, error) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	payload["updatedAt"] = time.Now()
	result, err := repo.Model.UpdateOne(c, filter, map[string]any{"$set": payload})
	if err != nil {
		logger.Error("mongo error occured while running UpdatePartialByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) UpdateManyByFilter(ctx context.Context, filter map[string]any, payload map[string]any) (int64, error) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	payload["updatedAt"] = time.Now()
	result, err := repo.Model.UpdateMany(c, filter, map[string]any{"$set": payload})
	if err != nil {
		logger.Error("mongo error occured while running UpdateManyByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) DeleteByID(ctx context.Context, id string) (int64, error) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	result, err := repo.Model.DeleteOne(c, map[string]any{"_id": id})
	if err != nil {
		logger.Error("mongo error occured while running DeleteByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.DeletedCount, nil
}

func parseFindOneOptions(opts []FindOptions) []*options.FindOneOptions {
	parsed := []*options.FindOneOptions{}
	for _, opt := range opts {
		findOneOpts := options.FindOne()
		if opt.Projection != nil {
			findOneOpts.SetProjection(*opt.Projection)
		}
		if opt.Sort != nil {
			findOneOpts.SetSort(*opt.Sort)
		}
		if opt.Skip != nil {
			findOneOpts.SetSkip(*opt.Skip)
		}
		parsed = append(parsed, findOneOpts)
	}
	return parsed
}

func parseFindOptions(opts []FindOptions) []*options.FindOptions {
	parsed := []*options.FindOptions{}
	for _, opt := range opts {
		findOpts := options.Find()
		if opt.Projection != nil {
			findOpts.SetProjection(*opt.Projection)
		}
		if opt.Sort != nil {
			findOpts.SetSort(*opt.Sort)
		}
		if opt.Skip != nil {
			findOpts.SetSkip(*opt.Skip)
		}
		if opt.Limit != nil {
			findOpts.SetLimit(*opt.Limit)
		}
		parsed = append(parsed, findOpts)
	}
	return parsed
}
