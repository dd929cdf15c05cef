// Package mongo archives chat exchanges in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// Client wraps the Mongo client and the archive collection
type Client struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewClient connects to MongoDB and ensures the archive indexes
func NewClient(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	c := &Client{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}

	_, err = c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return c, nil
}

// Close disconnects the client
func (c *Client) Close() error {
	return c.client.Disconnect(context.Background())
}

// Ping verifies connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// exchangeDoc stores ids as strings so documents stay readable from the shell
type exchangeDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	Question   string    `bson:"question"`
	Answer     string    `bson:"answer"`
	Intent     string    `bson:"intent"`
	Confidence float64   `bson:"confidence"`
	CreatedAt  time.Time `bson:"created_at"`
}

// ChatLogRepository implements domain.ChatLogRepository
type ChatLogRepository struct {
	client *Client
}

// NewChatLogRepository creates a new Mongo chat log repository
func NewChatLogRepository(client *Client) *ChatLogRepository {
	return &ChatLogRepository{client: client}
}

func (r *ChatLogRepository) Create(ctx context.Context, exchange *domain.ChatExchange) error {
	doc := exchangeDoc{
		ID:         exchange.ID.String(),
		UserID:     exchange.UserID.String(),
		Question:   exchange.Question,
		Answer:     exchange.Answer,
		Intent:     exchange.Intent,
		Confidence: exchange.Confidence,
		CreatedAt:  exchange.CreatedAt,
	}
	if _, err := r.client.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert chat exchange: %w", err)
	}
	return nil
}

func (r *ChatLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatExchange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.client.collection.Find(ctx, bson.M{"user_id": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find chat exchanges: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []exchangeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode chat exchanges: %w", err)
	}

	exchanges := make([]domain.ChatExchange, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, nil
}

func (d exchangeDoc) toDomain() (domain.ChatExchange, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.ChatExchange{}, fmt.Errorf("invalid exchange id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return domain.ChatExchange{}, fmt.Errorf("invalid user id %q: %w", d.UserID, err)
	}
	return domain.ChatExchange{
		ID:         id,
		UserID:     userID,
		Question:   d.Question,
		Answer:     d.Answer,
		Intent:     d.Intent,
		Confidence: d.Confidence,
		CreatedAt:  d.CreatedAt,
	}, nil
}
