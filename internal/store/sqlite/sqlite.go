// Package sqlite provides the typed repositories of the application on top of
// the generic repository and the SQLite store.
package sqlite

import (
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
)

// Repositories bundles every typed repository over one database.
type Repositories struct {
	Tasks   *TaskRepository
	Users   *UserRepository
	Tags    *TagRepository
	Replies *ReplyRepository
}

// New creates the repositories for db using the models of reg.
func New(db *store.DB, reg *schema.Registry) (*Repositories, error) {
	tasks, err := NewTaskRepository(db, reg)
	if err != nil {
		return nil, err
	}
	users, err := NewUserRepository(db, reg)
	if err != nil {
		return nil, err
	}
	tags, err := NewTagRepository(db, reg)
	if err != nil {
		return nil, err
	}
	replies, err := NewReplyRepository(db, reg)
	if err != nil {
		return nil, err
	}
	return &Repositories{Tasks: tasks, Users: users, Tags: tags, Replies: replies}, nil
}
