package order

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

// orderCounterID is the counters document holding the order sequence.
const orderCounterID = "orderNumber"

type mongoRepo struct {
	orders   *mongo.Collection
	counters *mongo.Collection
}

// NewMongoRepository creates an order repository. Line items are embedded
// in the order document.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepo{
		orders:   db.Collection(storage.OrdersCollection),
		counters: db.Collection(storage.CountersCollection),
	}
}

func (r *mongoRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, apperr.Internal(err, "next order number")
	}
	return counter.Seq, nil
}

func (r *mongoRepo) Create(ctx context.Context, o *Order) error {
	_, err := r.orders.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.DuplicateKey("order number %s already exists", o.OrderNumber)
	}
	if err != nil {
		return apperr.Internal(err, "insert order")
	}
	return nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	o := &Order{}
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "find order")
	}
	return o, nil
}

func (r *mongoRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cur, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	orders := []*Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal(err, "decode orders")
	}
	return orders, nil
}

func (r *mongoRepo) Update(ctx context.Context, o *Order) error {
	res, err := r.orders.UpdateByID(ctx, o.ID, bson.M{"$set": bson.M{
		"status":          o.Status,
		"shippingAddress": o.ShippingAddress,
		"updatedAt":       o.UpdatedAt,
	}})
	if err != nil {
		return apperr.Internal(err, "update order")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err, "delete order")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
