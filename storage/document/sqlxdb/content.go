package sqlxdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/easymind/easymind/core/content"
)

// questionList stores an assessment's ordered questions as a jsonb column.
type questionList []content.Question

func (ql questionList) Value() (driver.Value, error) {
	if ql == nil {
		ql = questionList{}
	}
	return json.Marshal(ql)
}

func (ql *questionList) Scan(src interface{}) error {
	if src == nil {
		*ql = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported questions column type %T", src)
	}
	return json.Unmarshal(b, ql)
}

type (
	materialRow struct {
		ID        string    `db:"id"`
		Title     string    `db:"title"`
		CoverURL  string    `db:"image_url"`
		FileURL   string    `db:"file_url"`
		CreatedAt time.Time `db:"created_at"`
	}

	assessmentRow struct {
		ID        string       `db:"id"`
		Title     string       `db:"title"`
		CoverURL  string       `db:"image_url"`
		Questions questionList `db:"questions"`
		CreatedAt time.Time    `db:"created_at"`
	}
)

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) ListMaterials(ctx context.Context) ([]content.Material, error) {
	var rows []materialRow
	q := `SELECT id, title, image_url, file_url, created_at FROM materials`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting materials")
	}

	materials := make([]content.Material, len(rows))
	for i, row := range rows {
		materials[i] = content.Material{
			ID:        row.ID,
			Title:     row.Title,
			CoverURL:  row.CoverURL,
			FileURL:   row.FileURL,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return materials, nil
}

func (repo *contentRepository) ListAssessments(ctx context.Context) ([]content.Assessment, error) {
	var rows []assessmentRow
	q := `SELECT id, title, image_url, questions, created_at FROM assessments`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting assessments")
	}

	assessments := make([]content.Assessment, len(rows))
	for i, row := range rows {
		assessments[i] = content.Assessment{
			ID:        row.ID,
			Title:     row.Title,
			CoverURL:  row.CoverURL,
			Questions: row.Questions,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return assessments, nil
}

func (repo *contentRepository) CreateMaterial(ctx context.Context, mat content.Material) (content.Material, error) {
	mat.ID = uuid.New().String()
	mat.CreatedAt = time.Now().UTC()

	q := `INSERT INTO materials (id, title, image_url, file_url, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, mat.ID, mat.Title, mat.CoverURL, mat.FileURL, mat.CreatedAt); err != nil {
		return content.Material{}, errors.Wrap(err, "inserting material")
	}
	return mat, nil
}

func (repo *contentRepository) CreateAssessment(ctx context.Context, ass content.Assessment) (content.Assessment, error) {
	ass.ID = uuid.New().String()
	ass.CreatedAt = time.Now().UTC()

	q := `INSERT INTO assessments (id, title, image_url, questions, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, ass.ID, ass.Title, ass.CoverURL, questionList(ass.Questions), ass.CreatedAt); err != nil {
		return content.Assessment{}, errors.Wrap(err, "inserting assessment")
	}
	return ass, nil
}

func (repo *contentRepository) UpdateMaterial(ctx context.Context, mat content.Material) error {
	q := `UPDATE materials SET title = $1, image_url = $2 WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, q, mat.Title, mat.CoverURL, mat.ID)
	if err != nil {
		return errors.Wrap(err, "updating material")
	}
	return checkAffected(res)
}

func (repo *contentRepository) UpdateAssessment(ctx context.Context, ass content.Assessment) error {
	q := `UPDATE assessments SET title = $1, image_url = $2, questions = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, q, ass.Title, ass.CoverURL, questionList(ass.Questions), ass.ID)
	if err != nil {
		return errors.Wrap(err, "updating assessment")
	}
	return checkAffected(res)
}

func (repo *contentRepository) DeleteContent(ctx context.Context, ctype, id string) error {
	var q string
	switch ctype {
	case content.TypeMaterial:
		q = `DELETE FROM materials WHERE id = $1`
	case content.TypeAssessment:
		q = `DELETE FROM assessments WHERE id = $1`
	default:
		return errors.Errorf("unknown content type %q", ctype)
	}

	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrapf(err, "deleting %s", ctype)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}
