package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/brochure"
	"github.com/franchisehub/brochure-service/internal/model"
	"github.com/franchisehub/brochure-service/internal/storage"
)

// fakeBrandRepo is an in-memory BrandRepository.
type fakeBrandRepo struct {
	mu        sync.Mutex
	brands    map[string]*model.BrandProfile
	artifacts map[string]*model.BrochureArtifact
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{
		brands:    make(map[string]*model.BrandProfile),
		artifacts: make(map[string]*model.BrochureArtifact),
	}
}

func (r *fakeBrandRepo) GetByID(ctx context.Context, brandID string) (*model.BrandProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	brand, ok := r.brands[brandID]
	if !ok {
		return nil, storage.ErrBrandNotFound
	}
	return brand, nil
}

func (r *fakeBrandRepo) Create(ctx context.Context, brand *model.BrandProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brands[brand.ID] = brand
	r.artifacts[brand.ID] = &model.BrochureArtifact{}
	return nil
}

func (r *fakeBrandRepo) GetArtifact(ctx context.Context, brandID string) (*model.BrochureArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	artifact, ok := r.artifacts[brandID]
	if !ok {
		return nil, storage.ErrBrandNotFound
	}
	copied := *artifact
	return &copied, nil
}

func (r *fakeBrandRepo) SetArtifact(ctx context.Context, brandID string, artifact *model.BrochureArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.artifacts[brandID]; !ok {
		return storage.ErrBrandNotFound
	}
	copied := *artifact
	r.artifacts[brandID] = &copied
	return nil
}

func (r *fakeBrandRepo) SetFailure(ctx context.Context, brandID string, errMsg string, failedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	artifact, ok := r.artifacts[brandID]
	if !ok {
		return storage.ErrBrandNotFound
	}
	artifact.Error = errMsg
	artifact.FailedAt = &failedAt
	return nil
}

func (r *fakeBrandRepo) ClearArtifact(ctx context.Context, brandID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.artifacts[brandID]; !ok {
		return storage.ErrBrandNotFound
	}
	r.artifacts[brandID] = &model.BrochureArtifact{}
	return nil
}

func (r *fakeBrandRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.brands)), nil
}

// fakeStore is an in-memory ObjectStore. failWrites makes the next N writes
// fail, for retry tests.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites > 0 {
		s.failWrites--
		return errors.New("simulated write failure")
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStore) Read(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (s *fakeStore) Stat(key string) (*storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) DeletePrefix(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.objects {
		keys = append(keys, key)
	}
	return keys
}

type testEnv struct {
	svc   *BrochureService
	repo  *fakeBrandRepo
	store *fakeStore
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	repo := newFakeBrandRepo()
	store := newFakeStore()
	logger := zap.NewNop()
	generator := brochure.NewGenerator(asset.NewLoader(time.Second, logger), logger)
	svc := NewBrochureService(repo, store, generator, "http://files.test", logger)
	return &testEnv{svc: svc, repo: repo, store: store}
}

func validProfile(id string) *model.BrandProfile {
	return &model.BrandProfile{
		ID:              id,
		BrandName:       "QuickBite",
		Category:        "Food & Beverage",
		InvestmentRange: "₹10L-₹50L",
	}
}

func TestValidate(t *testing.T) {
	env := setupService(t)

	tests := []struct {
		name            string
		profile         model.BrandProfile
		wantValid       bool
		wantMissingReq  []string
		wantMissingRecs int
	}{
		{
			name:            "missing brand name",
			profile:         model.BrandProfile{Category: "Retail"},
			wantValid:       false,
			wantMissingReq:  []string{"brandName"},
			wantMissingRecs: 3,
		},
		{
			name:            "missing both required",
			profile:         model.BrandProfile{},
			wantValid:       false,
			wantMissingReq:  []string{"brandName", "category"},
			wantMissingRecs: 3,
		},
		{
			name:            "valid but sparse",
			profile:         model.BrandProfile{BrandName: "QuickBite", Category: "Food & Beverage"},
			wantValid:       true,
			wantMissingReq:  []string{},
			wantMissingRecs: 3,
		},
		{
			name: "complete",
			profile: model.BrandProfile{
				BrandName: "QuickBite", Category: "Food & Beverage",
				BrandStory: "story", InvestmentRange: "range",
				BusinessModels: model.StringList{"FOFO"},
			},
			wantValid:       true,
			wantMissingReq:  []string{},
			wantMissingRecs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.svc.Validate(&tt.profile)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if len(tt.wantMissingReq) > 0 || len(got.MissingRequired) > 0 {
				if fmt.Sprint(got.MissingRequired) != fmt.Sprint(tt.wantMissingReq) {
					t.Errorf("MissingRequired = %v, want %v", got.MissingRequired, tt.wantMissingReq)
				}
			}
			if len(got.MissingRecommended) != tt.wantMissingRecs {
				t.Errorf("MissingRecommended = %v, want %d entries", got.MissingRecommended, tt.wantMissingRecs)
			}
		})
	}
}

func TestGenerateFilename(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		brandName string
		want      string
	}{
		{"QuickBite", "QuickBite_Franchise_Brochure_2026-09-01.pdf"},
		{"Joe's Café", "Joe_s_Caf__Franchise_Brochure_2026-09-01.pdf"},
		{"A&B 24/7", "A_B_24_7_Franchise_Brochure_2026-09-01.pdf"},
	}
	for _, tt := range tests {
		if got := GenerateFilename(tt.brandName, at); got != tt.want {
			t.Errorf("GenerateFilename(%q) = %q, want %q", tt.brandName, got, tt.want)
		}
	}
}

func TestGenerateAndStore_Success(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := validProfile("brand-1")
	env.repo.Create(ctx, profile)

	artifact, err := env.svc.GenerateAndStore(ctx, profile)
	if err != nil {
		t.Fatalf("generating: %v", err)
	}

	if artifact.Version != model.ArtifactVersion {
		t.Errorf("version = %q, want %q", artifact.Version, model.ArtifactVersion)
	}
	if artifact.Size == 0 {
		t.Error("expected non-zero artifact size")
	}
	if !strings.HasPrefix(artifact.URL, "http://files.test/brochures/brand-1/") {
		t.Errorf("unexpected artifact URL: %q", artifact.URL)
	}

	// Binary is in the store under the path convention.
	data, err := env.store.Read(ObjectKey("brand-1", artifact.Filename))
	if err != nil {
		t.Fatalf("reading stored binary: %v", err)
	}
	if int64(len(data)) != artifact.Size {
		t.Errorf("stored %d bytes, metadata says %d", len(data), artifact.Size)
	}

	stat, err := env.svc.Stat(ctx, "brand-1")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !stat.Exists {
		t.Error("expected stat to report existence after store")
	}
	if stat.ContentType != model.BrochureContentType {
		t.Errorf("contentType = %q, want %q", stat.ContentType, model.BrochureContentType)
	}
}

func TestGenerateAndStore_ValidationBlocks(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := &model.BrandProfile{ID: "brand-1", Category: "Retail"}
	env.repo.Create(ctx, profile)

	_, err := env.svc.GenerateAndStore(ctx, profile)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// The failure marker landed on the brand row.
	artifact, _ := env.repo.GetArtifact(ctx, "brand-1")
	if artifact.Error == "" || artifact.FailedAt == nil {
		t.Error("expected error marker persisted on validation failure")
	}
	if len(env.store.keys()) != 0 {
		t.Error("expected no binary stored on validation failure")
	}
}

func TestGenerateAndStore_UploadRetries(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := validProfile("brand-1")
	env.repo.Create(ctx, profile)
	env.store.failWrites = 1 // first attempt fails, retry succeeds

	if _, err := env.svc.GenerateAndStore(ctx, profile); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
}

func TestGenerateAndStore_FailurePreservesPreviousArtifact(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := validProfile("brand-1")
	env.repo.Create(ctx, profile)

	first, err := env.svc.GenerateAndStore(ctx, profile)
	if err != nil {
		t.Fatalf("first generation: %v", err)
	}

	// Exhaust both upload attempts.
	env.store.failWrites = 2
	if _, err := env.svc.GenerateAndStore(ctx, profile); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	stat, err := env.svc.Stat(ctx, "brand-1")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !stat.Exists {
		t.Fatal("previous artifact should survive a failed regeneration")
	}
	if stat.URL != first.URL {
		t.Errorf("stat URL = %q, want previous %q", stat.URL, first.URL)
	}
	if _, err := env.store.Read(ObjectKey("brand-1", first.Filename)); err != nil {
		t.Error("previous binary should survive a failed regeneration")
	}
}

func TestRegenerate_Overwrites(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := validProfile("brand-1")
	env.repo.Create(ctx, profile)

	day1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	env.svc.now = func() time.Time { return day1 }
	first, err := env.svc.Regenerate(ctx, "brand-1")
	if err != nil {
		t.Fatalf("first regenerate: %v", err)
	}

	env.svc.now = func() time.Time { return day2 }
	second, err := env.svc.Regenerate(ctx, "brand-1")
	if err != nil {
		t.Fatalf("second regenerate: %v", err)
	}

	if first.Filename == second.Filename {
		t.Fatal("expected date-stamped filenames to differ across days")
	}

	// Only the latest artifact exists: stat reflects the second, and the
	// first binary was swept.
	stat, _ := env.svc.Stat(ctx, "brand-1")
	if stat.Filename != second.Filename {
		t.Errorf("stat filename = %q, want %q", stat.Filename, second.Filename)
	}
	keys := env.store.keys()
	if len(keys) != 1 {
		t.Fatalf("expected exactly one stored binary, got %v", keys)
	}
	if keys[0] != ObjectKey("brand-1", second.Filename) {
		t.Errorf("surviving binary = %q, want the second artifact", keys[0])
	}
}

func TestRegenerate_UnknownBrand(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.Regenerate(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestStat_AbsenceIsNotAnError(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	// Unknown brand.
	stat, err := env.svc.Stat(ctx, "ghost")
	if err != nil {
		t.Fatalf("stat of unknown brand: %v", err)
	}
	if stat.Exists {
		t.Error("expected exists=false for unknown brand")
	}

	// Known brand, no brochure.
	env.repo.Create(ctx, validProfile("brand-1"))
	stat, err = env.svc.Stat(ctx, "brand-1")
	if err != nil {
		t.Fatalf("stat of brand without brochure: %v", err)
	}
	if stat.Exists {
		t.Error("expected exists=false before generation")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	profile := validProfile("brand-1")
	env.repo.Create(ctx, profile)

	if _, err := env.svc.GenerateAndStore(ctx, profile); err != nil {
		t.Fatalf("generating: %v", err)
	}

	if err := env.svc.Delete(ctx, "brand-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := env.svc.Delete(ctx, "brand-1"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	stat, _ := env.svc.Stat(ctx, "brand-1")
	if stat.Exists {
		t.Error("expected exists=false after delete")
	}
	if len(env.store.keys()) != 0 {
		t.Error("expected no binaries after delete")
	}
}

func TestDelete_UnknownBrand(t *testing.T) {
	env := setupService(t)
	if err := env.svc.Delete(context.Background(), "ghost"); err != nil {
		t.Errorf("deleting for unknown brand should succeed, got %v", err)
	}
}

func TestConcurrentRegenerates_Serialize(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.repo.Create(ctx, validProfile("brand-1"))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Regenerate(ctx, "brand-1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("regenerate %d: %v", i, err)
		}
	}
	// All runs happened on the same day, so they share one filename.
	if keys := env.store.keys(); len(keys) != 1 {
		t.Errorf("expected one stored binary after concurrent regenerates, got %v", keys)
	}
}
