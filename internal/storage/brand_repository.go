package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franchisehub/brochure-service/internal/model"
)

// ErrBrandNotFound is returned when a brand doesn't exist in the database.
// Callers check with errors.Is(err, ErrBrandNotFound).
var ErrBrandNotFound = errors.New("brand not found")

// BrandRepository is the persistence interface for brand profiles and the
// brochure artifact metadata written back onto them. The interface is
// exported, the SQLite implementation is not — handlers and services depend
// only on this, which keeps them testable with in-memory fakes.
type BrandRepository interface {
	GetByID(ctx context.Context, brandID string) (*model.BrandProfile, error)
	Create(ctx context.Context, brand *model.BrandProfile) error
	GetArtifact(ctx context.Context, brandID string) (*model.BrochureArtifact, error)
	SetArtifact(ctx context.Context, brandID string, artifact *model.BrochureArtifact) error
	SetFailure(ctx context.Context, brandID string, errMsg string, failedAt time.Time) error
	ClearArtifact(ctx context.Context, brandID string) error
	Count(ctx context.Context) (int64, error)
}

type sqliteBrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a SQLite-backed BrandRepository.
func NewBrandRepository(db *sqlx.DB) BrandRepository {
	return &sqliteBrandRepository{db: db}
}

func (r *sqliteBrandRepository) GetByID(ctx context.Context, brandID string) (*model.BrandProfile, error) {
	var brand model.BrandProfile
	err := r.db.GetContext(ctx, &brand, `
		SELECT id, brand_name, category, brand_story, founded_year, headquarters,
		       investment_range, business_models, revenue_model, expected_roi,
		       franchise_fee, equipment_cost, marketing_cost, working_capital,
		       brand_logo, brand_image, support_types, owner_email, owner_phone,
		       created_at, updated_at
		FROM brands WHERE id = ?`, brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting brand %s: %w", brandID, err)
	}
	return &brand, nil
}

func (r *sqliteBrandRepository) Create(ctx context.Context, brand *model.BrandProfile) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO brands (
			id, brand_name, category, brand_story, founded_year, headquarters,
			investment_range, business_models, revenue_model, expected_roi,
			franchise_fee, equipment_cost, marketing_cost, working_capital,
			brand_logo, brand_image, support_types, owner_email, owner_phone
		) VALUES (
			:id, :brand_name, :category, :brand_story, :founded_year, :headquarters,
			:investment_range, :business_models, :revenue_model, :expected_roi,
			:franchise_fee, :equipment_cost, :marketing_cost, :working_capital,
			:brand_logo, :brand_image, :support_types, :owner_email, :owner_phone
		)`, brand)
	if err != nil {
		return fmt.Errorf("creating brand: %w", err)
	}
	return nil
}

// artifactRow scans the brochure metadata columns. Nullable columns map to
// pointer fields; a row with a NULL url means no artifact exists.
type artifactRow struct {
	URL         *string    `db:"brochure_url"`
	Filename    *string    `db:"brochure_filename"`
	GeneratedAt *time.Time `db:"brochure_generated_at"`
	Size        *int64     `db:"brochure_size"`
	Version     *string    `db:"brochure_version"`
	Error       *string    `db:"brochure_error"`
	FailedAt    *time.Time `db:"brochure_failed_at"`
}

func (r *sqliteBrandRepository) GetArtifact(ctx context.Context, brandID string) (*model.BrochureArtifact, error) {
	var row artifactRow
	err := r.db.GetContext(ctx, &row, `
		SELECT brochure_url, brochure_filename, brochure_generated_at,
		       brochure_size, brochure_version, brochure_error, brochure_failed_at
		FROM brands WHERE id = ?`, brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting artifact for %s: %w", brandID, err)
	}

	artifact := &model.BrochureArtifact{
		GeneratedAt: row.GeneratedAt,
		FailedAt:    row.FailedAt,
	}
	if row.URL != nil {
		artifact.URL = *row.URL
	}
	if row.Filename != nil {
		artifact.Filename = *row.Filename
	}
	if row.Size != nil {
		artifact.Size = *row.Size
	}
	if row.Version != nil {
		artifact.Version = *row.Version
	}
	if row.Error != nil {
		artifact.Error = *row.Error
	}
	return artifact, nil
}

// SetArtifact records a successful generation, replacing any prior artifact
// and clearing a stale failure marker in the same statement.
func (r *sqliteBrandRepository) SetArtifact(ctx context.Context, brandID string, artifact *model.BrochureArtifact) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE brands SET
			brochure_url = ?,
			brochure_filename = ?,
			brochure_generated_at = ?,
			brochure_size = ?,
			brochure_version = ?,
			brochure_error = NULL,
			brochure_failed_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		artifact.URL, artifact.Filename, artifact.GeneratedAt, artifact.Size, artifact.Version, brandID)
	if err != nil {
		return fmt.Errorf("setting artifact for %s: %w", brandID, err)
	}
	return requireRow(res, brandID)
}

// SetFailure records a failed generation. The artifact columns are left
// untouched so a previously good brochure survives a failed regeneration.
func (r *sqliteBrandRepository) SetFailure(ctx context.Context, brandID string, errMsg string, failedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE brands SET
			brochure_error = ?,
			brochure_failed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		errMsg, failedAt, brandID)
	if err != nil {
		return fmt.Errorf("setting failure for %s: %w", brandID, err)
	}
	return requireRow(res, brandID)
}

// ClearArtifact removes all brochure metadata from the brand record.
func (r *sqliteBrandRepository) ClearArtifact(ctx context.Context, brandID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE brands SET
			brochure_url = NULL,
			brochure_filename = NULL,
			brochure_generated_at = NULL,
			brochure_size = NULL,
			brochure_version = NULL,
			brochure_error = NULL,
			brochure_failed_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, brandID)
	if err != nil {
		return fmt.Errorf("clearing artifact for %s: %w", brandID, err)
	}
	return requireRow(res, brandID)
}

func (r *sqliteBrandRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM brands")
	return count, err
}

// requireRow turns a zero-row UPDATE into ErrBrandNotFound.
func requireRow(res sql.Result, brandID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBrandNotFound, brandID)
	}
	return nil
}
