package repositories

import (
	"context"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	// Conversation returns messages exchanged between a and b, oldest first.
	Conversation(ctx context.Context, a, b uint) ([]models.Message, error)
	// ListForUser returns messages sent or received by userID, newest first.
	ListForUser(ctx context.Context, userID uint) ([]models.Message, error)
	ListAll(ctx context.Context) ([]models.Message, error)
}

type MongoMessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(col *mongo.Collection) *MongoMessageRepository {
	return &MongoMessageRepository{col: col}
}

func (r *MongoMessageRepository) Create(ctx context.Context, m *models.Message) error {
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return apperror.Infrastructure("failed to store message", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		m.ID = id
	}
	return nil
}

func (r *MongoMessageRepository) Conversation(ctx context.Context, a, b uint) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": a, "receiverId": b},
		bson.M{"senderId": b, "receiverId": a},
	}}
	return r.find(ctx, filter, 1)
}

func (r *MongoMessageRepository) ListForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userID},
		bson.M{"receiverId": userID},
	}}
	return r.find(ctx, filter, -1)
}

func (r *MongoMessageRepository) ListAll(ctx context.Context) ([]models.Message, error) {
	return r.find(ctx, bson.M{}, -1)
}

func (r *MongoMessageRepository) find(ctx context.Context, filter bson.M, order int) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.Infrastructure("failed to load messages", err)
	}
	defer cursor.Close(ctx)

	messages := make([]models.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, apperror.Infrastructure("failed to decode messages", err)
	}
	return messages, nil
}
