package dummydb

import (
	"sync"

	"github.com/frostwarlord/portal/core/blog"
	"github.com/frostwarlord/portal/core/chat"
	"github.com/frostwarlord/portal/core/event"
	"github.com/frostwarlord/portal/core/match"
	"github.com/frostwarlord/portal/core/upload"
	"github.com/frostwarlord/portal/core/user"
)

type (
	DB struct {
		user    *userTable
		post    *postTable
		comment *commentTable
		event   *eventTable
		match   *matchTable
		upload  *uploadTable
		message *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	postTable struct {
		sync.RWMutex
		table map[string]*blog.Post
	}

	commentTable struct {
		sync.RWMutex
		table map[string]*blog.Comment
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
	}

	matchTable struct {
		sync.RWMutex
		table map[string]*match.Match
	}

	uploadTable struct {
		sync.RWMutex
		table map[string]*upload.Upload
	}

	messageTable struct {
		sync.RWMutex
		table map[string]*chat.Message
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		post:    &postTable{table: make(map[string]*blog.Post)},
		comment: &commentTable{table: make(map[string]*blog.Comment)},
		event:   &eventTable{table: make(map[string]*event.Event)},
		match:   &matchTable{table: make(map[string]*match.Match)},
		upload:  &uploadTable{table: make(map[string]*upload.Upload)},
		message: &messageTable{table: make(map[string]*chat.Message)},
	}
	return db, nil
}
