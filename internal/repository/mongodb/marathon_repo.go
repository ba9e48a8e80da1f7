package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marathonhub/internal/domain"
)

type marathonRepository struct {
	coll *mongo.Collection
}

func NewMarathonRepository(db *mongo.Database) domain.MarathonRepository {
	return &marathonRepository{coll: db.Collection(marathonsCollection)}
}

func (r *marathonRepository) Create(ctx context.Context, m *domain.Marathon) error {
	m.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		m.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *marathonRepository) GetByID(ctx context.Context, id string) (*domain.Marathon, error) {
	m := &domain.Marathon{}
	if err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(m); err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return m, nil
}

// creationOrder sorts by createdAt, breaking ties by insertion order.
func creationOrder(newestFirst bool) bson.D {
	dir := 1
	if newestFirst {
		dir = -1
	}
	return bson.D{{Key: "createdAt", Value: dir}, {Key: "_id", Value: 1}}
}

func (r *marathonRepository) List(ctx context.Context, params domain.ListParams) ([]*domain.Marathon, error) {
	opts := options.Find().SetSort(creationOrder(params.Sort != domain.SortOldest))
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))
	}
	return r.find(ctx, bson.D{}, opts)
}

func (r *marathonRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Marathon, error) {
	opts := options.Find().SetSort(creationOrder(true))
	return r.find(ctx, bson.D{{Key: "createdBy", Value: ownerID}}, opts)
}

func (r *marathonRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*domain.Marathon, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	marathons := make([]*domain.Marathon, 0)
	if err := cursor.All(ctx, &marathons); err != nil {
		return nil, err
	}
	if marathons == nil {
		marathons = []*domain.Marathon{}
	}
	return marathons, nil
}

func (r *marathonRepository) Update(ctx context.Context, id string, update domain.MarathonUpdate) (*domain.Marathon, error) {
	set := bson.D{}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *update.Location})
	}
	if update.Distance != nil {
		set = append(set, bson.E{Key: "distance", Value: *update.Distance})
	}
	if update.RegStartDate != nil {
		set = append(set, bson.E{Key: "regStartDate", Value: *update.RegStartDate})
	}
	if update.RegEndDate != nil {
		set = append(set, bson.E{Key: "regEndDate", Value: *update.RegEndDate})
	}
	if update.StartDate != nil {
		set = append(set, bson.E{Key: "startDate", Value: *update.StartDate})
	}
	if update.ImageURL != nil {
		set = append(set, bson.E{Key: "imageURL", Value: *update.ImageURL})
	}
	if len(set) == 0 {
		// Nothing to change; just fetch the current document
		return r.GetByID(ctx, id)
	}

	m := &domain.Marathon{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(m)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return m, nil
}

func (r *marathonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *marathonRepository) AdjustRegistrationCount(ctx context.Context, id string, delta int) error {
	filter := bson.D{{Key: "id", Value: id}}
	if delta >= 0 {
		res, err := r.coll.UpdateOne(ctx, filter, bson.D{{Key: "$inc", Value: bson.D{{Key: "totalRegistration", Value: delta}}}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	}
	// Pipeline update keeps the floor at zero in a single atomic write.
	floored := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "totalRegistration", Value: bson.D{{Key: "$max", Value: bson.A{
			0,
			bson.D{{Key: "$add", Value: bson.A{"$totalRegistration", delta}}},
		}}}}}}},
	}
	_, err := r.coll.UpdateOne(ctx, filter, floored)
	return err
}
