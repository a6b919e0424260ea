package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedLogRepo interface {
	SaveFeedLog(ctx context.Context, log *FeedLog) error
	GetRecentByUser(ctx context.Context, userID uint64, limit int) ([]*FeedLog, error)
}

type feedLogRepoImpl struct {
	col *mongo.Collection
}

func NewFeedLogRepo(db *mongo.Database) FeedLogRepo {
	return &feedLogRepoImpl{
		col: db.Collection("feed_log"),
	}
}

// SaveFeedLog 将生成记录存入 MongoDB
func (s *feedLogRepoImpl) SaveFeedLog(ctx context.Context, log *FeedLog) error {
	_, err := s.col.InsertOne(ctx, log)
	return err
}

// GetRecentByUser 按用户查询最近的生成记录
func (s *feedLogRepoImpl) GetRecentByUser(ctx context.Context, userID uint64, limit int) ([]*FeedLog, error) {
	filter := bson.M{"user_id": userID}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var logs []*FeedLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
