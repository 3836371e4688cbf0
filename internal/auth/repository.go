package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtsync/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "admin_users"

var (
	ErrAccountNotFound = errors.New("admin account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// AdminUser is a console operator account. These live apart from the
// customer-facing users collection and never appear in the directory.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	Create(ctx context.Context, account *AdminUser) error
}

type mongoAccountRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAccountRepository(cfg *config.Config) AccountRepository {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	return &mongoAccountRepository{
		cfg:        cfg,
		collection: collection,
	}
}

func (r *mongoAccountRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*AdminUser, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var account AdminUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin account: %w", err)
	}

	return &account, nil
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *AdminUser) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid
	}

	return nil
}
