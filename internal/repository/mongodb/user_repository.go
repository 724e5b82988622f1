package mongodb

import (
	"context"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	coll *mongo.Collection
}

var _ repository.UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) List(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	users := []model.User{}
	total, err := list(ctx, r.coll, bson.M{}, page, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, repository.ErrInvalidID
	}
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, user)
	return translateError(err)
}

func (r *UserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		set["imageURL"] = *patch.ImageURL
	}

	var user model.User
	if err := setAndReturn(ctx, r.coll, id, set, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
