package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/easymind/easymind/core/content"
)

type contentRepository struct {
	materials   *materialTable
	assessments *assessmentTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{materials: db.materials, assessments: db.assessments}
}

func (repo *contentRepository) ListMaterials(_ context.Context) ([]content.Material, error) {
	repo.materials.RLock()
	defer repo.materials.RUnlock()

	materials := make([]content.Material, 0, len(repo.materials.table))
	for _, m := range repo.materials.table {
		materials = append(materials, *m)
	}
	return materials, nil
}

func (repo *contentRepository) ListAssessments(_ context.Context) ([]content.Assessment, error) {
	repo.assessments.RLock()
	defer repo.assessments.RUnlock()

	assessments := make([]content.Assessment, 0, len(repo.assessments.table))
	for _, a := range repo.assessments.table {
		assessments = append(assessments, *a)
	}
	return assessments, nil
}

func (repo *contentRepository) CreateMaterial(_ context.Context, mat content.Material) (content.Material, error) {
	repo.materials.Lock()
	defer repo.materials.Unlock()

	mat.ID = uuid.New().String()
	mat.CreatedAt = time.Now().UTC()
	repo.materials.table[mat.ID] = &mat
	return mat, nil
}

func (repo *contentRepository) CreateAssessment(_ context.Context, ass content.Assessment) (content.Assessment, error) {
	repo.assessments.Lock()
	defer repo.assessments.Unlock()

	ass.ID = uuid.New().String()
	ass.CreatedAt = time.Now().UTC()
	repo.assessments.table[ass.ID] = &ass
	return ass, nil
}

func (repo *contentRepository) UpdateMaterial(_ context.Context, mat content.Material) error {
	repo.materials.Lock()
	defer repo.materials.Unlock()

	orig, ok := repo.materials.table[mat.ID]
	if !ok {
		return content.ErrNotFound
	}
	orig.Title = mat.Title
	orig.CoverURL = mat.CoverURL
	return nil
}

func (repo *contentRepository) UpdateAssessment(_ context.Context, ass content.Assessment) error {
	repo.assessments.Lock()
	defer repo.assessments.Unlock()

	orig, ok := repo.assessments.table[ass.ID]
	if !ok {
		return content.ErrNotFound
	}
	orig.Title = ass.Title
	orig.CoverURL = ass.CoverURL
	orig.Questions = ass.Questions
	return nil
}

func (repo *contentRepository) DeleteContent(_ context.Context, ctype, id string) error {
	switch ctype {
	case content.TypeMaterial:
		repo.materials.Lock()
		defer repo.materials.Unlock()
		if _, ok := repo.materials.table[id]; !ok {
			return content.ErrNotFound
		}
		delete(repo.materials.table, id)
	case content.TypeAssessment:
		repo.assessments.Lock()
		defer repo.assessments.Unlock()
		if _, ok := repo.assessments.table[id]; !ok {
			return content.ErrNotFound
		}
		delete(repo.assessments.table, id)
	default:
		return content.ErrNotFound
	}
	return nil
}
