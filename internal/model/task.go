package model

import (
	"time"
)

type Task struct {
	ID          string     `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Title       string     `json:"title" bson:"title" gorm:"not null;size:100"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Link        string     `json:"link,omitempty" bson:"link,omitempty"`
	TagIDs      []string   `json:"tags" bson:"tags" gorm:"column:tags;type:jsonb;serializer:json"`
	DueDate     *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	UserID      string     `json:"user,omitempty" bson:"user,omitempty" gorm:"column:user_id;index;size:24"`
	ColumnID    string     `json:"column,omitempty" bson:"column,omitempty" gorm:"column:column_id;index;size:24"`
	Comments    []Comment  `json:"comments" bson:"comments" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Comment is embedded in its task document.
type Comment struct {
	ID        string    `json:"_id" bson:"_id"`
	Text      string    `json:"text" bson:"text"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TaskDetail is a task with its user, column and tags references resolved.
type TaskDetail struct {
	ID          string     `json:"_id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Link        string     `json:"link,omitempty" bson:"link,omitempty"`
	Tags        []Tag      `json:"tags" bson:"tags"`
	DueDate     *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	User        *User      `json:"user" bson:"user,omitempty"`
	Column      *Column    `json:"column" bson:"column,omitempty"`
	Comments    []Comment  `json:"comments" bson:"comments"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Detail resolves the task's references against the given lookups. Tags are
// returned in the order the task lists them; unknown ids are skipped.
func (t Task) Detail(users map[string]User, columns map[string]Column, tags map[string]Tag) TaskDetail {
	d := TaskDetail{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Link:        t.Link,
		DueDate:     t.DueDate,
		Comments:    t.Comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
	if u, ok := users[t.UserID]; ok {
		d.User = &u
	}
	if c, ok := columns[t.ColumnID]; ok {
		d.Column = &c
	}
	d.Tags = OrderTags(t.TagIDs, tags)
	return d
}

// OrderTags returns the tags listed by ids, in the order of ids. Ids missing
// from found are skipped; repeated ids repeat their tag.
func OrderTags(ids []string, found map[string]Tag) []Tag {
	tags := make([]Tag, 0, len(ids))
	for _, id := range ids {
		if tag, ok := found[id]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// TaskPatch holds the fields of a partial task update. A non-nil pointer to an
// empty string clears the user or column reference; ClearDueDate unsets the due date.
type TaskPatch struct {
	Title        *string
	Description  *string
	Link         *string
	TagIDs       *[]string
	DueDate      *time.Time
	ClearDueDate bool
	UserID       *string
	ColumnID     *string
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Link == nil && p.TagIDs == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.UserID == nil && p.ColumnID == nil
}

// TaskFilter narrows a task listing. Title is matched as a case-insensitive
// substring; the id fields must match exactly when set.
type TaskFilter struct {
	Title    string
	UserID   string
	ColumnID string
	TagID    string
}

// Page selects a window of a listing. Number starts at 1.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}
