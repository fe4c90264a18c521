package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/upload"
)

// latest upload first
var uploadOrdering = core.DBOrdering{Field: "created_at"}

type uploadRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  null.String `db:"description"`
	FileURL      string      `db:"file_url"`
	ThumbnailURL null.String `db:"thumbnail_url"`
	UploadType   string      `db:"upload_type"`
	SizeBytes    int64       `db:"size_bytes"`
	UploadedBy   string      `db:"uploaded_by"`
	CreatedAt    time.Time   `db:"created_at"`
}

func (r uploadRow) unpack() upload.Upload {
	return upload.Upload{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description.String,
		FileURL:      r.FileURL,
		ThumbnailURL: r.ThumbnailURL.String,
		UploadType:   r.UploadType,
		SizeBytes:    r.SizeBytes,
		UploadedBy:   r.UploadedBy,
		CreatedAt:    r.CreatedAt,
	}
}

type uploadRepository struct {
	db *sqlx.DB
}

var _ upload.Repository = (*uploadRepository)(nil) // interface compliance check

func NewUploadRepository(db *sqlx.DB) *uploadRepository {
	return &uploadRepository{db: db}
}

func (repo uploadRepository) CreateUpload(ctx context.Context, up upload.Upload) (upload.Upload, error) {
	up.ID = uuid.New().String()
	row := uploadRow{
		ID:           up.ID,
		Title:        up.Title,
		Description:  null.NewString(up.Description, up.Description != ""),
		FileURL:      up.FileURL,
		ThumbnailURL: null.NewString(up.ThumbnailURL, up.ThumbnailURL != ""),
		UploadType:   up.UploadType,
		SizeBytes:    up.SizeBytes,
		UploadedBy:   up.UploadedBy,
		CreatedAt:    up.CreatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO uploads (
			id, title, description, file_url, thumbnail_url, upload_type,
			size_bytes, uploaded_by, created_at
		) VALUES (
			:id, :title, :description, :file_url, :thumbnail_url, :upload_type,
			:size_bytes, :uploaded_by, :created_at
		)`, row)
	if err != nil {
		return upload.Upload{}, errors.Wrap(err, "inserting upload")
	}
	return up, nil
}

func (repo uploadRepository) QueryUploads(ctx context.Context) ([]upload.Upload, error) {
	var rows []uploadRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM uploads ORDER BY `+uploadOrdering.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying uploads")
	}
	uploads := make([]upload.Upload, len(rows))
	for i, row := range rows {
		uploads[i] = row.unpack()
	}
	return uploads, nil
}
