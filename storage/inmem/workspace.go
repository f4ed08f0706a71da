package inmem

import (
	"sync"
	"time"

	"github.com/trezcool/revisioncam/core/study"
)

type (
	DB struct {
		workspaces *workspaceTable
	}

	workspaceTable struct {
		table map[string]*workspaceRow
		mutex sync.RWMutex
	}

	// rows have their own lock so one slow import does not block other sessions
	workspaceRow struct {
		ws    *study.Workspace
		mutex sync.Mutex
	}
)

func Open() *DB {
	return &DB{
		workspaces: &workspaceTable{table: make(map[string]*workspaceRow)},
	}
}

type workspaceRepository struct {
	db *workspaceTable
}

var _ study.Repository = (*workspaceRepository)(nil)

func NewWorkspaceRepository(db *DB) study.Repository {
	return &workspaceRepository{db: db.workspaces}
}

func (repo *workspaceRepository) Create(ws *study.Workspace) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[ws.ID]; !ok {
		repo.db.table[ws.ID] = &workspaceRow{ws: ws}
	}
	return nil
}

func (repo *workspaceRepository) Exists(id string) bool {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.table[id]
	return ok
}

func (repo *workspaceRepository) row(id string) (*workspaceRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row, nil
	}
	return nil, study.ErrNotFound
}

func (repo *workspaceRepository) Update(id string, fn func(ws *study.Workspace) error) error {
	row, err := repo.row(id)
	if err != nil {
		return err
	}
	row.mutex.Lock()
	defer row.mutex.Unlock()
	return fn(row.ws)
}

func (repo *workspaceRepository) Delete(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return study.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *workspaceRepository) DeleteIdle(before time.Time) (int, error) {
	repo.db.mutex.RLock()
	rows := make(map[string]*workspaceRow, len(repo.db.table))
	for id, row := range repo.db.table {
		rows[id] = row
	}
	repo.db.mutex.RUnlock()

	idle := make([]string, 0)
	for id, row := range rows {
		row.mutex.Lock()
		if row.ws.UpdatedAt.Before(before) {
			idle = append(idle, id)
		}
		row.mutex.Unlock()
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var count int
	for _, id := range idle {
		// the row may have been replaced since it was found idle
		if repo.db.table[id] == rows[id] {
			delete(repo.db.table, id)
			count++
		}
	}
	return count, nil
}
