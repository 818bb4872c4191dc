package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/model"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a UserRepository over the users collection.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, model.UserFromMap(fromBSON(doc)))
	}
	return users, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc bson.M
	if err := r.coll.FindOne(ctx, bson.M{model.FieldEmail: email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	user := model.UserFromMap(fromBSON(doc))
	return &user, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) (string, error) {
	res, err := r.coll.InsertOne(ctx, bson.M(user.Document()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// EnsureMongoIndexes creates the unique email index on users and the
// ordering index on tasks. Users without a string email are not indexed.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	email := mongo.IndexModel{
		Keys: bson.D{{Key: model.FieldEmail, Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{model.FieldEmail: bson.M{"$type": "string"}}),
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, email); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	position := mongo.IndexModel{
		Keys:    bson.D{{Key: model.FieldPosition, Value: 1}},
		Options: options.Index().SetName("position"),
	}
	if _, err := db.Collection(TasksCollection).Indexes().CreateOne(ctx, position); err != nil {
		return fmt.Errorf("create tasks position index: %w", err)
	}
	return nil
}
