package mongodb

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marathonhub/internal/domain"
)

type registrationRepository struct {
	coll *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) domain.RegistrationRepository {
	return &registrationRepository{coll: db.Collection(registrationsCollection)}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, reg); err != nil {
		reg.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg := &domain.Registration{}
	if err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(reg); err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return reg, nil
}

func (r *registrationRepository) GetByUserAndMarathon(ctx context.Context, userID, marathonID string) (*domain.Registration, error) {
	reg := &domain.Registration{}
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "marathonId", Value: marathonID}}
	if err := r.coll.FindOne(ctx, filter).Decode(reg); err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return reg, nil
}

// ListByUser joins marathons with $lookup. Registrations whose marathon is gone keep a null marathon.
func (r *registrationRepository) ListByUser(ctx context.Context, userID, search string) ([]*domain.RegistrationWithMarathon, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: marathonsCollection},
			{Key: "localField", Value: "marathonId"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "marathon"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$marathon"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	if search != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "marathon.title", Value: bson.D{
				{Key: "$regex", Value: regexp.QuoteMeta(search)},
				{Key: "$options", Value: "i"},
			}},
		}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: creationOrder(true)}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	rows := make([]*domain.RegistrationWithMarathon, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*domain.RegistrationWithMarathon{}
	}
	return rows, nil
}

func (r *registrationRepository) Update(ctx context.Context, id string, update domain.RegistrationUpdate) (*domain.Registration, error) {
	set := bson.D{}
	if update.FirstName != nil {
		set = append(set, bson.E{Key: "firstName", Value: *update.FirstName})
	}
	if update.LastName != nil {
		set = append(set, bson.E{Key: "lastName", Value: *update.LastName})
	}
	if update.Contact != nil {
		set = append(set, bson.E{Key: "contact", Value: *update.Contact})
	}
	if update.AdditionalInfo != nil {
		set = append(set, bson.E{Key: "additionalInfo", Value: *update.AdditionalInfo})
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	reg := &domain.Registration{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(reg)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteByMarathon(ctx context.Context, marathonID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "marathonId", Value: marathonID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
