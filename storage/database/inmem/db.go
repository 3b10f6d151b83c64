package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-landing/core/lead"
)

type (
	// DB holds every table for the process lifetime.
	DB struct {
		lead *leadTable
	}

	leadTable struct {
		sync.RWMutex
		table map[string]*lead.Lead
	}
)

func Open() *DB {
	return &DB{
		lead: &leadTable{table: make(map[string]*lead.Lead)},
	}
}
