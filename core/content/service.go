package content

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("content not found")

type (
	// Repository is the content document store.
	Repository interface {
		ListMaterials(ctx context.Context) ([]Material, error)
		ListAssessments(ctx context.Context) ([]Assessment, error)
		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		CreateAssessment(ctx context.Context, ass Assessment) (Assessment, error)
		UpdateMaterial(ctx context.Context, mat Material) error
		UpdateAssessment(ctx context.Context, ass Assessment) error
		DeleteContent(ctx context.Context, ctype, id string) error
	}

	// FileStore persists uploaded material files and returns their public URL.
	FileStore interface {
		Upload(ctx context.Context, key string, body io.Reader) (string, error)
	}

	Service struct {
		repo  Repository
		files FileStore
	}
)

func NewService(repo Repository, files FileStore) *Service {
	return &Service{repo: repo, files: files}
}

// List returns the merged content listing, filtered then sorted.
func (svc *Service) List(ctx context.Context, mode FilterMode, order SortOrder) ([]Item, error) {
	materials, err := svc.repo.ListMaterials(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing materials")
	}
	assessments, err := svc.repo.ListAssessments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing assessments")
	}

	items := FilterItems(MergeItems(materials, assessments), mode)
	SortItems(items, order)
	return items, nil
}

// CreateMaterial uploads the file first, then persists the document carrying
// the resulting URL. A failed upload leaves the store untouched.
func (svc *Service) CreateMaterial(ctx context.Context, mat Material, filename string, file io.Reader) (Material, error) {
	url, err := svc.files.Upload(ctx, FileKey(filename), file)
	if err != nil {
		return Material{}, errors.Wrap(err, "uploading material file")
	}
	mat.FileURL = url

	mat, err = svc.repo.CreateMaterial(ctx, mat)
	if err != nil {
		return Material{}, errors.Wrap(err, "creating material")
	}
	return mat, nil
}

func (svc *Service) CreateAssessment(ctx context.Context, ass Assessment) (Assessment, error) {
	ass, err := svc.repo.CreateAssessment(ctx, ass)
	if err != nil {
		return Assessment{}, errors.Wrap(err, "creating assessment")
	}
	return ass, nil
}

func (svc *Service) UpdateMaterial(ctx context.Context, mat Material) error {
	return errors.Wrap(svc.repo.UpdateMaterial(ctx, mat), "updating material")
}

func (svc *Service) UpdateAssessment(ctx context.Context, ass Assessment) error {
	return errors.Wrap(svc.repo.UpdateAssessment(ctx, ass), "updating assessment")
}

func (svc *Service) Delete(ctx context.Context, ctype, id string) error {
	return errors.Wrapf(svc.repo.DeleteContent(ctx, ctype, id), "deleting %s", ctype)
}

// FileKey builds the blob key for an uploaded material file; the uuid prefix
// keeps same-named uploads from clobbering each other.
func FileKey(filename string) string {
	return "materials/" + uuid.New().String() + "-" + filename
}
