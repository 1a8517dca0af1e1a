package service

import (
	"context"
	"strings"

	"github.com/courseloop/classroom-media/platform/go/respond"
	"github.com/courseloop/classroom-media/platform/go/tenantdb"
)

// classesTable is the tenant-side table holding class records. Column names
// follow the provisioned schema (camelCase, written by the web app).
const (
	classesTable    = "classes"
	assetIDColumn   = "muxVideoId"
	playbackColumn  = "muxPlaybackId"
	legacyURLColumn = "videoUrl"
)

// TenantDB is the subset of tenant database operations this domain needs.
type TenantDB interface {
	Select(ctx context.Context, params tenantdb.SelectParams) ([]tenantdb.Row, error)
	Delete(ctx context.Context, table string, filters tenantdb.Filters) ([]tenantdb.Row, error)
}

// CredentialResolver builds a request-scoped tenant database client.
type CredentialResolver interface {
	Resolve(ctx context.Context, tenantKey string) (TenantDB, error)
}

// AssetDeleter removes a vendor media asset.
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, assetID string) error
}

// CleanupReport is the outcome of the best-effort vendor asset deletion.
// It is embedded in the success payload; it never fails the request.
type CleanupReport struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// DeleteVideoInput identifies the class row and the tenant it belongs to.
type DeleteVideoInput struct {
	ClassID string
	UserID  string
}

// DeleteVideoResult reports the primary deletion plus the cleanup sub-report.
type DeleteVideoResult struct {
	ClassID string        `json:"classId"`
	Deleted bool          `json:"deleted"`
	Mux     CleanupReport `json:"mux"`
}

// Service defines the business operations for the classes domain.
type Service interface {
	DeleteVideo(ctx context.Context, input DeleteVideoInput) (DeleteVideoResult, error)
}

type service struct {
	resolver CredentialResolver
	mux      AssetDeleter
}

// New constructs a classes Service. The asset deleter may be nil when the
// vendor credentials are absent; cleanup is then reported as failed without
// blocking the primary deletion.
func New(resolver CredentialResolver, mux AssetDeleter) Service {
	if resolver == nil {
		panic("credential resolver is required")
	}
	return &service{resolver: resolver, mux: mux}
}

// DeleteVideo removes a class row after attempting to delete the vendor
// asset it references. The sequence is: resolve tenant credentials, read the
// row's asset reference, best-effort vendor deletion, delete the row. The
// vendor deletion outcome is captured, never propagated; the row deletion
// proceeds regardless.
func (s *service) DeleteVideo(ctx context.Context, input DeleteVideoInput) (DeleteVideoResult, error) {
	classID := strings.TrimSpace(input.ClassID)
	if classID == "" {
		return DeleteVideoResult{}, &respond.InvalidInputError{Message: "classId is required"}
	}

	db, err := s.resolver.Resolve(ctx, input.UserID)
	if err != nil {
		return DeleteVideoResult{}, err
	}

	rows, err := db.Select(ctx, tenantdb.SelectParams{
		Table:   classesTable,
		Columns: strings.Join([]string{"id", assetIDColumn, playbackColumn, legacyURLColumn}, ","),
		Filters: tenantdb.Filters{"id": classID},
		Limit:   1,
	})
	if err != nil {
		return DeleteVideoResult{}, err
	}
	if len(rows) == 0 {
		return DeleteVideoResult{}, &respond.NotFoundError{Entity: "Class"}
	}

	report := s.cleanupAsset(ctx, rows[0].String(assetIDColumn))

	deleted, err := db.Delete(ctx, classesTable, tenantdb.Filters{"id": classID})
	if err != nil {
		return DeleteVideoResult{}, err
	}
	if len(deleted) == 0 {
		return DeleteVideoResult{}, &respond.NotFoundError{Entity: "Class"}
	}

	return DeleteVideoResult{ClassID: classID, Deleted: true, Mux: report}, nil
}

func (s *service) cleanupAsset(ctx context.Context, assetID string) CleanupReport {
	if assetID == "" {
		return CleanupReport{}
	}

	report := CleanupReport{Attempted: true}
	if s.mux == nil {
		report.Error = "mux access token is not configured"
		return report
	}

	if err := s.mux.DeleteAsset(ctx, assetID); err != nil {
		report.Error = err.Error()
		return report
	}

	report.Success = true
	return report
}
