package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"marathonhub/internal/domain"
)

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	u.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		u.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	if err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(u); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, firebaseUID string) (*domain.User, error) {
	u := &domain.User{}
	if err := r.coll.FindOne(ctx, bson.D{{Key: "firebaseUid", Value: firebaseUID}}).Decode(u); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}
