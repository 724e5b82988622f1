package mongodb

import (
	"context"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TagRepository struct {
	coll *mongo.Collection
}

var _ repository.TagRepositoryInterface = (*TagRepository)(nil)

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{coll: db.Collection(tagsCollection)}
}

func (r *TagRepository) List(ctx context.Context, page model.Page) ([]model.Tag, int64, error) {
	tags := []model.Tag{}
	total, err := list(ctx, r.coll, bson.M{}, page, &tags)
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if tag.ID == "" {
		tag.ID = model.NewID()
	}
	stamp(&tag.CreatedAt, &tag.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, tag)
	return translateError(err)
}

func (r *TagRepository) Update(ctx context.Context, id string, patch model.TagPatch) (*model.Tag, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Color != nil {
		set["color"] = *patch.Color
	}

	var tag model.Tag
	if err := setAndReturn(ctx, r.coll, id, set, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
