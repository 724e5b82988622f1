package mongodb

import (
	"context"
	"regexp"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskRepository struct {
	coll *mongo.Collection
}

var _ repository.TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

// List returns one page of matching tasks with user, column and tags looked up.
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.TaskDetail, int64, error) {
	match := taskMatch(filter)

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(page.Offset())}},
		{{Key: "$limit", Value: int64(page.PerPage)}},
	}
	tasks, err := r.aggregate(ctx, append(pipeline, lookupStages()...))
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, repository.ErrInvalidID
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	tasks, err := r.aggregate(ctx, append(pipeline, lookupStages()...))
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, repository.ErrNotFound
	}
	return &tasks[0], nil
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = model.NewID()
	}
	if task.TagIDs == nil {
		task.TagIDs = []string{}
	}
	if task.Comments == nil {
		task.Comments = []model.Comment{}
	}
	stamp(&task.CreatedAt, &task.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, task)
	return translateError(err)
}

// Update sets the patched fields. Empty user or column ids and ClearDueDate
// remove the field from the document.
func (r *TaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, repository.ErrInvalidID
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Link != nil {
		set["link"] = *patch.Link
	}
	if patch.TagIDs != nil {
		tags := *patch.TagIDs
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if patch.ClearDueDate {
		unset["dueDate"] = ""
	} else if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	setOrUnset(set, unset, "user", patch.UserID)
	setOrUnset(set, unset, "column", patch.ColumnID)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if err := r.updateOne(ctx, id, update); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) AddComment(ctx context.Context, id string, comment model.Comment) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, repository.ErrInvalidID
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	if err := r.updateOne(ctx, id, update); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// taskDocument is an aggregation result: the looked up task plus the tag ids
// in the order the task stores them.
type taskDocument struct {
	model.TaskDetail `bson:",inline"`
	TagIDs           []string `bson:"tagIds"`
}

func (r *TaskRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]model.TaskDetail, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]model.TaskDetail, 0, len(docs))
	for _, doc := range docs {
		task := doc.TaskDetail
		found := make(map[string]model.Tag, len(task.Tags))
		for _, tag := range task.Tags {
			found[tag.ID] = tag
		}
		// $lookup returns tags in collection order with repeats collapsed.
		task.Tags = model.OrderTags(doc.TagIDs, found)
		if task.Comments == nil {
			task.Comments = []model.Comment{}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func taskMatch(filter model.TaskFilter) bson.M {
	match := bson.M{}
	if filter.Title != "" {
		match["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}
	if filter.UserID != "" {
		match["user"] = filter.UserID
	}
	if filter.ColumnID != "" {
		match["column"] = filter.ColumnID
	}
	if filter.TagID != "" {
		match["tags"] = filter.TagID
	}
	return match
}

// lookupStages replaces the user, column and tag ids with their documents.
// The tag ids are kept as tagIds so the task's tag order can be restored.
func lookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{{Key: "tagIds", Value: "$tags"}}}},
		lookup(usersCollection, "user"),
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$user"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		lookup(columnsCollection, "column"),
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$column"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		lookup(tagsCollection, "tags"),
	}
}

func lookup(from, field string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: field},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: field},
	}}}
}

func setOrUnset(set, unset bson.M, field string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		unset[field] = ""
		return
	}
	set[field] = *value
}
