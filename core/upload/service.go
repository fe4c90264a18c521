package upload

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/user"
)

type (
	Repository interface {
		CreateUpload(ctx context.Context, up Upload) (Upload, error)
		// QueryUploads returns all uploads, newest first.
		QueryUploads(ctx context.Context) ([]Upload, error)
	}

	Service interface {
		Query(ctx context.Context) ([]Upload, error)
		Create(ctx context.Context, nu NewUpload, uploader user.User) (Upload, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Query(ctx context.Context) ([]Upload, error) {
	return svc.repo.QueryUploads(ctx)
}

func (svc *service) Create(ctx context.Context, nu NewUpload, uploader user.User) (Upload, error) {
	up := Upload{
		Title:        nu.Title,
		Description:  nu.Description,
		FileURL:      nu.FileURL,
		ThumbnailURL: nu.ThumbnailURL,
		UploadedBy:   uploader.ID,
		UploadType:   nu.UploadType,
		SizeBytes:    nu.SizeBytes,
		CreatedAt:    time.Now().UTC(),
	}
	up, err := svc.repo.CreateUpload(ctx, up)
	return up, errors.Wrap(err, "creating upload")
}
