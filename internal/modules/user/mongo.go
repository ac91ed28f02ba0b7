package user

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a user repository over the users collection.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection(storage.UsersCollection)}
}

func (r *mongoRepository) CreateUser(ctx context.Context, user *User) error {
	doc := *user
	doc.Email = strings.ToLower(doc.Email)
	_, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("email is already registered")
	}
	if err != nil {
		return apperr.Internal(err, "insert user")
	}
	return nil
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	user := &User{}
	err := r.coll.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "find user")
	}
	return user, nil
}

func (r *mongoRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepository) ListUsers(ctx context.Context, f Filter) ([]*User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["userType"] = f.Role
	}
	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	users := []*User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperr.Internal(err, "decode users")
	}
	return users, nil
}

func (r *mongoRepository) UpdateUser(ctx context.Context, user *User) error {
	res, err := r.coll.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"companyName": user.CompanyName,
		"contactName": user.ContactName,
		"taxId":       user.TaxID,
		"phone":       user.Phone,
	}})
	if err != nil {
		return apperr.Internal(err, "update user")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *mongoRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
