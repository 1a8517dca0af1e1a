package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/courseloop/classroom-media/platform/go/muxvideo"
	"github.com/courseloop/classroom-media/platform/go/respond"
	"github.com/courseloop/classroom-media/platform/go/tenantdb"
)

const classesTable = "classes"

// AdminDB is the tenant database reached with the process-wide service
// credentials rather than per-tenant ones.
type AdminDB interface {
	Select(ctx context.Context, params tenantdb.SelectParams) ([]tenantdb.Row, error)
	Update(ctx context.Context, table string, patch map[string]any, filters tenantdb.Filters) ([]tenantdb.Row, error)
}

// MuxProbe is the trivial vendor call used by the self-test.
type MuxProbe interface {
	ListAssets(ctx context.Context, params muxvideo.ListAssetsParams) ([]muxvideo.Asset, error)
}

// ClassSummary is one class row plus the playback source derived from its
// stored reference fields.
type ClassSummary struct {
	ID         string          `json:"id"`
	AssetID    string          `json:"muxVideoId,omitempty"`
	PlaybackID string          `json:"muxPlaybackId,omitempty"`
	VideoURL   string          `json:"videoUrl,omitempty"`
	Source     muxvideo.Source `json:"source"`
}

// StepResult reports one self-test probe.
type StepResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SelfTestReport aggregates the sequential probes of one self-test run.
type SelfTestReport struct {
	RunID   string       `json:"runId"`
	Healthy bool         `json:"healthy"`
	Steps   []StepResult `json:"steps"`
}

// Service defines the diagnostics operations.
type Service interface {
	ListClasses(ctx context.Context, limit int) ([]ClassSummary, error)
	PatchClass(ctx context.Context, id string, patch map[string]any) (tenantdb.Row, error)
	SelfTest(ctx context.Context) SelfTestReport
}

type service struct {
	adminDB AdminDB
	mux     MuxProbe
}

// New constructs a diagnostics Service. Either collaborator may be nil when
// its credentials are absent; the affected operations then report a
// configuration error.
func New(adminDB AdminDB, mux MuxProbe) Service {
	return &service{adminDB: adminDB, mux: mux}
}

func (s *service) admin() (AdminDB, error) {
	if s.adminDB == nil {
		return nil, &respond.ConfigError{Message: "Supabase admin credentials are not configured"}
	}
	return s.adminDB, nil
}

// ListClasses reads class rows directly with the global credentials and
// resolves the playback source each row would play from.
func (s *service) ListClasses(ctx context.Context, limit int) ([]ClassSummary, error) {
	db, err := s.admin()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Select(ctx, tenantdb.SelectParams{
		Table:   classesTable,
		Columns: "id,muxVideoId,muxPlaybackId,videoUrl",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]ClassSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ClassSummary{
			ID:         row.String("id"),
			AssetID:    row.String("muxVideoId"),
			PlaybackID: row.String("muxPlaybackId"),
			VideoURL:   row.String("videoUrl"),
			Source:     muxvideo.ResolveSource(row.String("muxPlaybackId"), row.String("videoUrl")),
		})
	}
	return summaries, nil
}

// PatchClass updates a single class row, typically to repair a stale
// playback id. Zero matched rows surface as the conflated not-found answer.
func (s *service) PatchClass(ctx context.Context, id string, patch map[string]any) (tenantdb.Row, error) {
	db, err := s.admin()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(id) == "" {
		return nil, &respond.InvalidInputError{Message: "id is required"}
	}
	if len(patch) == 0 {
		return nil, &respond.InvalidInputError{Message: "at least one field must be provided"}
	}

	rows, err := db.Update(ctx, classesTable, patch, tenantdb.Filters{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &respond.NotFoundError{Entity: "Class"}
	}

	return rows[0], nil
}

// SelfTest runs the connectivity probes in sequence: configured credentials,
// a trivial vendor list call, and a trivial tenant database read. Probe
// failures land in the report, not in an error.
func (s *service) SelfTest(ctx context.Context) SelfTestReport {
	report := SelfTestReport{RunID: uuid.NewString()}

	credentials := StepResult{Name: "credentials", OK: true}
	var missing []string
	if s.mux == nil {
		missing = append(missing, "mux access token")
	}
	if s.adminDB == nil {
		missing = append(missing, "supabase admin credentials")
	}
	if len(missing) > 0 {
		credentials.OK = false
		credentials.Error = "missing: " + strings.Join(missing, ", ")
	}
	report.Steps = append(report.Steps, credentials)

	vendor := StepResult{Name: "mux-api"}
	if s.mux == nil {
		vendor.Error = "skipped: mux access token is not configured"
	} else if _, err := s.mux.ListAssets(ctx, muxvideo.ListAssetsParams{Limit: 1}); err != nil {
		vendor.Error = err.Error()
	} else {
		vendor.OK = true
	}
	report.Steps = append(report.Steps, vendor)

	database := StepResult{Name: "tenant-db"}
	if s.adminDB == nil {
		database.Error = "skipped: supabase admin credentials are not configured"
	} else if _, err := s.adminDB.Select(ctx, tenantdb.SelectParams{Table: classesTable, Columns: "id", Limit: 1}); err != nil {
		database.Error = err.Error()
	} else {
		database.OK = true
	}
	report.Steps = append(report.Steps, database)

	report.Healthy = true
	for _, step := range report.Steps {
		if !step.OK {
			report.Healthy = false
			break
		}
	}

	return report
}
