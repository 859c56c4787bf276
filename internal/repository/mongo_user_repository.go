package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nexium/recipe-service/internal/domain"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Username  string        `bson:"username"`
	Email     string        `bson:"email"`
	ClerkID   string        `bson:"clerkId"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Email:      d.Email,
		ProviderID: d.ClerkID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// MongoUserRepository implements UserRepository on a MongoDB collection
type MongoUserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoUserRepository creates a user repository backed by coll
func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll, now: time.Now}
}

// FindUserByProviderID looks up a user by identity provider id
func (r *MongoUserRepository) FindUserByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "clerkId", Value: providerID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by provider id: %w", err)
	}
	return doc.toDomain(), nil
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := r.now().UTC()
	doc := userDocument{
		Username:  user.Username,
		Email:     user.Email,
		ClerkID:   user.ProviderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("user %s: %w", user.ProviderID, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}
