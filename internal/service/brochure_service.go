// Package service contains the brochure lifecycle manager: validate a
// profile, generate the PDF, upload it, persist artifact metadata, and
// answer regenerate/stat/delete.
//
// Failure never cascades: a failed generation records an error marker on the
// brand row and leaves any previously good artifact untouched, so approval
// workflows that trigger generation as a side effect keep moving.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/brochure"
	"github.com/franchisehub/brochure-service/internal/model"
	"github.com/franchisehub/brochure-service/internal/storage"
)

// ErrValidation is returned when required profile fields are missing.
// Never retried automatically — the profile has to change first.
var ErrValidation = errors.New("profile validation failed")

// ErrStorage wraps upload/delete failures against the object store. The
// generated binary is not discarded by the failure, so a caller can retry
// the store step alone.
var ErrStorage = errors.New("storage operation failed")

// Required and recommended profile fields, by their API names.
var (
	requiredFields = []struct {
		name  string
		value func(*model.BrandProfile) bool
	}{
		{"brandName", func(p *model.BrandProfile) bool { return p.BrandName != "" }},
		{"category", func(p *model.BrandProfile) bool { return p.Category != "" }},
	}
	recommendedFields = []struct {
		name  string
		value func(*model.BrandProfile) bool
	}{
		{"brandStory", func(p *model.BrandProfile) bool { return p.BrandStory != "" }},
		{"investmentRange", func(p *model.BrandProfile) bool { return p.InvestmentRange != "" }},
		{"businessModels", func(p *model.BrandProfile) bool { return len(p.BusinessModels) > 0 }},
	}
)

// Upload retry policy: bounded, fixed backoff. Generation itself is never
// retried here.
const (
	uploadAttempts = 2
	uploadBackoff  = 500 * time.Millisecond
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// BrochureService owns the artifact lifecycle for every brand.
type BrochureService struct {
	brands    storage.BrandRepository
	store     storage.ObjectStore
	generator *brochure.Generator
	baseURL   string
	logger    *zap.Logger

	// now is injectable so filename/timestamp tests are deterministic.
	now func() time.Time

	// locks serializes lifecycle operations per brand: at most one
	// generation, regeneration, or delete in flight per brand ID. Distinct
	// brands never block each other.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBrochureService wires the lifecycle manager.
func NewBrochureService(
	brands storage.BrandRepository,
	store storage.ObjectStore,
	generator *brochure.Generator,
	baseURL string,
	logger *zap.Logger,
) *BrochureService {
	return &BrochureService{
		brands:    brands,
		store:     store,
		generator: generator,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Validate checks profile completeness. A missing required field blocks
// generation; missing recommended fields only mean fallback copy.
func (s *BrochureService) Validate(profile *model.BrandProfile) model.ValidationResult {
	result := model.ValidationResult{
		MissingRequired:    []string{},
		MissingRecommended: []string{},
	}

	for _, f := range requiredFields {
		if !f.value(profile) {
			result.MissingRequired = append(result.MissingRequired, f.name)
		}
	}
	for _, f := range recommendedFields {
		if !f.value(profile) {
			result.MissingRecommended = append(result.MissingRecommended, f.name)
		}
	}

	result.Valid = len(result.MissingRequired) == 0
	switch {
	case !result.Valid:
		result.Message = "Missing required fields: " + strings.Join(result.MissingRequired, ", ")
	case len(result.MissingRecommended) > 0:
		result.Message = "Brochure will use fallback content for: " + strings.Join(result.MissingRecommended, ", ")
	default:
		result.Message = "Profile is ready for brochure generation"
	}
	return result
}

// GenerateFilename builds the deterministic artifact filename: the brand
// name with every non-alphanumeric character replaced by an underscore (one
// underscore per character), plus the UTC date.
func GenerateFilename(brandName string, at time.Time) string {
	sanitized := nonAlphanumeric.ReplaceAllString(brandName, "_")
	return fmt.Sprintf("%s_Franchise_Brochure_%s.pdf", sanitized, at.UTC().Format("2006-01-02"))
}

// ObjectKey is the storage path convention for a brand's brochure.
func ObjectKey(brandID, filename string) string {
	return "brochures/" + brandID + "/" + filename
}

// GenerateAndStore runs the full pipeline for one profile: validate,
// generate, upload (bounded retry), persist metadata. The artifact is only
// written after a successful upload, so a failure at any step leaves the
// previous artifact intact; the failure itself is recorded on the brand row.
func (s *BrochureService) GenerateAndStore(ctx context.Context, profile *model.BrandProfile) (*model.BrochureArtifact, error) {
	lock := s.brandLock(profile.ID)
	lock.Lock()
	defer lock.Unlock()

	if v := s.Validate(profile); !v.Valid {
		err := fmt.Errorf("%w: %s", ErrValidation, v.Message)
		s.recordFailure(ctx, profile.ID, err)
		return nil, err
	}

	data, err := s.generator.Generate(ctx, profile)
	if err != nil {
		s.recordFailure(ctx, profile.ID, err)
		return nil, err
	}

	prev, _ := s.brands.GetArtifact(ctx, profile.ID)

	generatedAt := s.now().UTC()
	filename := GenerateFilename(profile.BrandName, generatedAt)
	key := ObjectKey(profile.ID, filename)

	if err := s.upload(ctx, key, data); err != nil {
		s.recordFailure(ctx, profile.ID, err)
		return nil, err
	}

	artifact := &model.BrochureArtifact{
		URL:         s.baseURL + "/" + key,
		Filename:    filename,
		GeneratedAt: &generatedAt,
		Size:        int64(len(data)),
		Version:     model.ArtifactVersion,
	}
	if err := s.brands.SetArtifact(ctx, profile.ID, artifact); err != nil {
		return nil, fmt.Errorf("%w: persisting artifact metadata: %v", ErrStorage, err)
	}

	// Regeneration keeps only the latest artifact. A prior binary under a
	// different filename is swept after the new metadata is in place.
	if prev.Exists() && prev.Filename != filename {
		if err := s.store.Delete(ObjectKey(profile.ID, prev.Filename)); err != nil {
			s.logger.Warn("sweeping previous brochure binary",
				zap.String("brand_id", profile.ID),
				zap.String("filename", prev.Filename),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("brochure stored",
		zap.String("brand_id", profile.ID),
		zap.String("key", key),
		zap.Int64("size", artifact.Size),
	)
	return artifact, nil
}

// Regenerate re-fetches the brand's current profile from its source of
// truth and reruns the pipeline, overwriting the previous artifact.
func (s *BrochureService) Regenerate(ctx context.Context, brandID string) (*model.BrochureArtifact, error) {
	profile, err := s.brands.GetByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return s.GenerateAndStore(ctx, profile)
}

// Stat reports whether a brochure exists for the brand, and its metadata.
// The brand row's artifact columns are the canonical source of truth; a
// missing brand or missing artifact is {exists:false}, never an error.
func (s *BrochureService) Stat(ctx context.Context, brandID string) (*model.BrochureStat, error) {
	artifact, err := s.brands.GetArtifact(ctx, brandID)
	if errors.Is(err, storage.ErrBrandNotFound) {
		return &model.BrochureStat{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !artifact.Exists() {
		return &model.BrochureStat{Exists: false}, nil
	}
	return &model.BrochureStat{
		Exists:      true,
		URL:         artifact.URL,
		Filename:    artifact.Filename,
		Size:        artifact.Size,
		GeneratedAt: artifact.GeneratedAt,
		ContentType: model.BrochureContentType,
	}, nil
}

// Open returns the stored PDF bytes for the download endpoint.
func (s *BrochureService) Open(ctx context.Context, brandID string) ([]byte, *model.BrochureArtifact, error) {
	artifact, err := s.brands.GetArtifact(ctx, brandID)
	if err != nil {
		if errors.Is(err, storage.ErrBrandNotFound) {
			return nil, nil, storage.ErrObjectNotFound
		}
		return nil, nil, err
	}
	if !artifact.Exists() {
		return nil, nil, storage.ErrObjectNotFound
	}
	data, err := s.store.Read(ObjectKey(brandID, artifact.Filename))
	if err != nil {
		return nil, nil, err
	}
	return data, artifact, nil
}

// Delete removes the brochure for a brand: metadata first, then the stored
// binary. Clearing metadata first means dashboards can never observe a URL
// whose binary is already gone. Deleting an absent brochure is success.
func (s *BrochureService) Delete(ctx context.Context, brandID string) error {
	lock := s.brandLock(brandID)
	lock.Lock()
	defer lock.Unlock()

	err := s.brands.ClearArtifact(ctx, brandID)
	if err != nil && !errors.Is(err, storage.ErrBrandNotFound) {
		return fmt.Errorf("%w: clearing artifact metadata: %v", ErrStorage, err)
	}

	if err := s.store.DeletePrefix("brochures/" + brandID); err != nil {
		return fmt.Errorf("%w: deleting brochure binary: %v", ErrStorage, err)
	}
	return nil
}

// upload writes the binary with a bounded retry. The context is consulted
// before every attempt.
func (s *BrochureService) upload(ctx context.Context, key string, data []byte) error {
	var err error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = s.store.Write(key, data); err == nil {
			return nil
		}
		s.logger.Warn("brochure upload attempt failed",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < uploadAttempts {
			select {
			case <-time.After(uploadBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// recordFailure persists the {error, failedAt} marker on the brand row.
// Best effort: a brand that no longer exists or a write failure is logged,
// not surfaced, so the original error stays the caller's error.
func (s *BrochureService) recordFailure(ctx context.Context, brandID string, cause error) {
	if err := s.brands.SetFailure(ctx, brandID, cause.Error(), s.now().UTC()); err != nil {
		s.logger.Warn("recording brochure failure",
			zap.String("brand_id", brandID),
			zap.Error(err),
		)
	}
	s.logger.Error("brochure generation failed",
		zap.String("brand_id", brandID),
		zap.Error(cause),
	)
}

func (s *BrochureService) brandLock(brandID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[brandID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[brandID] = lock
	}
	return lock
}
