package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/frostwarlord/portal/core/upload"
)

type uploadRepository struct {
	db *uploadTable
}

var _ upload.Repository = (*uploadRepository)(nil) // interface compliance check

func NewUploadRepository(db *DB) *uploadRepository {
	return &uploadRepository{db: db.upload}
}

func (repo *uploadRepository) CreateUpload(ctx context.Context, up upload.Upload) (upload.Upload, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	up.ID = uuid.New().String()
	repo.db.table[up.ID] = &up
	return up, nil
}

func (repo *uploadRepository) QueryUploads(ctx context.Context) ([]upload.Upload, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	uploads := make([]upload.Upload, 0, len(repo.db.table))
	for _, up := range repo.db.table {
		uploads = append(uploads, *up)
	}
	sort.Slice(uploads, func(i, j int) bool { return uploads[i].CreatedAt.After(uploads[j].CreatedAt) })
	return uploads, nil
}
