package model_test

import (
	"testing"

	"taskboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTaskDetail_ResolvesReferences(t *testing.T) {
	userID, columnID := model.NewID(), model.NewID()
	tagA, tagB, missing := model.NewID(), model.NewID(), model.NewID()

	task := model.Task{
		ID:       model.NewID(),
		Title:    "Write docs",
		TagIDs:   []string{tagB, missing, tagA},
		UserID:   userID,
		ColumnID: columnID,
	}

	d := task.Detail(
		map[string]model.User{userID: {ID: userID, Name: "anna"}},
		map[string]model.Column{columnID: {ID: columnID, Name: "Doing"}},
		map[string]model.Tag{tagA: {ID: tagA, Name: "a"}, tagB: {ID: tagB, Name: "b"}},
	)

	assert.Equal(t, task.ID, d.ID)
	assert.Equal(t, "anna", d.User.Name)
	assert.Equal(t, "Doing", d.Column.Name)
	if assert.Len(t, d.Tags, 2) {
		assert.Equal(t, "b", d.Tags[0].Name)
		assert.Equal(t, "a", d.Tags[1].Name)
	}
	assert.NotNil(t, d.Comments)
}

func TestTaskDetail_MissingReferencesAreNil(t *testing.T) {
	task := model.Task{ID: model.NewID(), Title: "Orphan", UserID: model.NewID()}

	d := task.Detail(nil, nil, nil)

	assert.Nil(t, d.User)
	assert.Nil(t, d.Column)
	assert.Empty(t, d.Tags)
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, model.Page{Number: 1, PerPage: 20}.Offset())
	assert.Equal(t, 40, model.Page{Number: 3, PerPage: 20}.Offset())
	assert.Equal(t, 0, model.Page{Number: 0, PerPage: 20}.Offset())
}

func TestIDs(t *testing.T) {
	id := model.NewID()

	assert.Len(t, id, 24)
	assert.True(t, model.IsValidID(id))
	assert.False(t, model.IsValidID("not-an-id"))
	assert.False(t, model.IsValidID(""))
}

func TestTaskPatch_Empty(t *testing.T) {
	assert.True(t, model.TaskPatch{}.Empty())

	title := "x"
	assert.False(t, model.TaskPatch{Title: &title}.Empty())
	assert.False(t, model.TaskPatch{ClearDueDate: true}.Empty())
}

func TestOrderTags(t *testing.T) {
	a, b := model.NewID(), model.NewID()
	found := map[string]model.Tag{
		a: {ID: a, Name: "a"},
		b: {ID: b, Name: "b"},
	}

	got := model.OrderTags([]string{b, a, model.NewID(), b}, found)

	assert.Equal(t, []model.Tag{found[b], found[a], found[b]}, got)
	assert.NotNil(t, model.OrderTags(nil, found))
}
