package dummydb

import (
	"sync"

	"github.com/easymind/easymind/core/content"
)

type (
	DB struct {
		materials   *materialTable
		assessments *assessmentTable
	}

	materialTable struct {
		sync.RWMutex
		table map[string]*content.Material
	}

	assessmentTable struct {
		sync.RWMutex
		table map[string]*content.Assessment
	}
)

func Open() (*DB, error) {
	db := &DB{
		materials:   &materialTable{table: make(map[string]*content.Material)},
		assessments: &assessmentTable{table: make(map[string]*content.Assessment)},
	}
	return db, nil
}
