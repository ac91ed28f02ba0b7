package catalog

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

type mongoRepo struct{ coll *mongo.Collection }

// NewMongoRepository creates a product repository over the products collection.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepo{coll: db.Collection(storage.ProductsCollection)}
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *mongoRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return duplicateSKU(p.SKU)
	}
	if err != nil {
		return apperr.Internal(err, "insert product")
	}
	return nil
}

func decodeProduct(res *mongo.SingleResult) (*Product, error) {
	p := &Product{}
	err := res.Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "decode product")
	}
	p.normalize()
	return p, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	return decodeProduct(r.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (r *mongoRepo) List(ctx context.Context, f Filter) ([]*Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = containsFold(f.Category)
	}
	if f.Query != "" {
		filter["name"] = containsFold(f.Query)
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	products := []*Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, apperr.Internal(err, "decode products")
	}
	for _, p := range products {
		p.normalize()
	}
	return products, nil
}

func (r *mongoRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if mongo.IsDuplicateKeyError(err) {
		return duplicateSKU(p.SKU)
	}
	if err != nil {
		return apperr.Internal(err, "update product")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *mongoRepo) AdjustStock(ctx context.Context, id string, delta int) (*Product, error) {
	// Pipeline update so the clamp is evaluated server-side.
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{
			0, bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}},
		}}}},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeProduct(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

func (r *mongoRepo) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, apperr.Internal(err, "list categories")
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
