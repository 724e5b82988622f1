package mongodb

import (
	"context"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ColumnRepository struct {
	coll *mongo.Collection
}

var _ repository.ColumnRepositoryInterface = (*ColumnRepository)(nil)

func NewColumnRepository(db *mongo.Database) *ColumnRepository {
	return &ColumnRepository{coll: db.Collection(columnsCollection)}
}

func (r *ColumnRepository) List(ctx context.Context, page model.Page) ([]model.Column, int64, error) {
	columns := []model.Column{}
	total, err := list(ctx, r.coll, bson.M{}, page, &columns)
	if err != nil {
		return nil, 0, err
	}
	return columns, total, nil
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	if column.ID == "" {
		column.ID = model.NewID()
	}
	stamp(&column.CreatedAt, &column.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, column)
	return translateError(err)
}

func (r *ColumnRepository) Update(ctx context.Context, id string, patch model.ColumnPatch) (*model.Column, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}

	var column model.Column
	if err := setAndReturn(ctx, r.coll, id, set, &column); err != nil {
		return nil, err
	}
	return &column, nil
}
