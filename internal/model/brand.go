// Package model defines the core data types for the brochure service.
// Each field carries two tags: `db:"..."` for sqlx row scanning and
// `json:"..."` for API responses. The JSON names match the marketplace
// frontend's field names, so dashboards can consume responses unchanged.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a []string as a JSON TEXT column in SQLite.
// It implements driver.Valuer and sql.Scanner so sqlx can round-trip it.
type StringList []string

// Value serializes the list to JSON for storage.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// Scan deserializes a JSON TEXT column back into the list.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// BrandProfile is the input record for brochure generation. It is read-only
// for this subsystem — the marketplace owns brand CRUD; we only consume it.
type BrandProfile struct {
	ID              string     `db:"id" json:"id"`
	BrandName       string     `db:"brand_name" json:"brandName"`
	Category        string     `db:"category" json:"category"`
	BrandStory      string     `db:"brand_story" json:"brandStory"`
	FoundedYear     string     `db:"founded_year" json:"foundedYear"`
	Headquarters    string     `db:"headquarters" json:"headquarters"`
	InvestmentRange string     `db:"investment_range" json:"investmentRange"`
	BusinessModels  StringList `db:"business_models" json:"businessModels"`
	RevenueModel    string     `db:"revenue_model" json:"revenueModel"`
	ExpectedROI     string     `db:"expected_roi" json:"expectedROI"`
	FranchiseFee    string     `db:"franchise_fee" json:"franchiseFee"`
	EquipmentCost   string     `db:"equipment_cost" json:"equipmentCost"`
	MarketingCost   string     `db:"marketing_cost" json:"marketingCost"`
	WorkingCapital  string     `db:"working_capital" json:"workingCapital"`
	BrandLogo       string     `db:"brand_logo" json:"brandLogo"`
	BrandImage      string     `db:"brand_image" json:"brandImage"`
	SupportTypes    StringList `db:"support_types" json:"supportTypes"`
	OwnerEmail      string     `db:"owner_email" json:"ownerEmail"`
	OwnerPhone      string     `db:"owner_phone" json:"ownerPhone"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// ArtifactVersion tags every stored brochure. There is no history — only the
// latest artifact exists per brand — so the version is a constant for now.
const ArtifactVersion = "1.0"

// BrochureContentType is the MIME type of every stored artifact.
const BrochureContentType = "application/pdf"

// BrochureArtifact is the metadata persisted on the brand record after a
// successful generation, or the failure marker after a failed one.
type BrochureArtifact struct {
	URL         string     `json:"url,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	Size        int64      `json:"size,omitempty"`
	Version     string     `json:"version,omitempty"`
	Error       string     `json:"error,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}

// Exists reports whether the artifact points at a stored binary.
func (a *BrochureArtifact) Exists() bool {
	return a != nil && a.URL != ""
}

// BrochureStat is the shape dashboards consume. Absence is data, not an
// error: a brand without a brochure yields {exists: false}.
type BrochureStat struct {
	Exists      bool       `json:"exists"`
	URL         string     `json:"url,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	Size        int64      `json:"size,omitempty"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	ContentType string     `json:"contentType,omitempty"`
}

// ValidationResult reports profile completeness ahead of generation.
// Missing required fields block generation; missing recommended fields
// only degrade the output (fallback copy is substituted).
type ValidationResult struct {
	Valid              bool     `json:"valid"`
	MissingRequired    []string `json:"missingRequired"`
	MissingRecommended []string `json:"missingRecommended"`
	Message            string   `json:"message"`
}
