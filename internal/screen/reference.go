package screen

import (
	"context"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
)

// DashboardScreen drives the landing page summary.
type DashboardScreen struct {
	stats  *datasync.Collection[models.DashboardStats]
	loader *datasync.Loader[models.DashboardStats]
}

func newDashboardScreen(client *upstream.Client, env Env, guard func() error) *DashboardScreen {
	s := &DashboardScreen{stats: datasync.NewCollection[models.DashboardStats](nil)}
	s.stats.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("dashboard") }
	s.loader = datasync.NewLoader(s.stats, func(ctx context.Context) ([]models.DashboardStats, error) {
		stats, err := client.DashboardStats(ctx)
		if err != nil {
			return nil, err
		}
		return []models.DashboardStats{stats}, nil
	}, guard)
	return s
}

// Load fetches the summary.
func (s *DashboardScreen) Load(ctx context.Context) error {
	return s.loader.Load(ctx)
}

// Stats returns the last-good summary.
func (s *DashboardScreen) Stats() (models.DashboardStats, models.ListState, bool) {
	stats, ok := latest(s.stats.Snapshot())
	return stats, s.stats.State(), ok
}

// Close tears the screen down.
func (s *DashboardScreen) Close() {
	s.stats.Reset()
}

// ConsultasScreen drives the performance-report page: a school-year dropdown
// and the report for the selected year. Switching years quickly is safe under
// the generation guard.
type ConsultasScreen struct {
	client *upstream.Client

	mu   sync.Mutex
	year string

	report *datasync.Collection[models.PerformanceReport]
	loader *datasync.Loader[models.PerformanceReport]

	years *Lookup[string]
}

func newConsultasScreen(client *upstream.Client, env Env, guard func() error) *ConsultasScreen {
	s := &ConsultasScreen{
		client: client,
		report: datasync.NewCollection[models.PerformanceReport](nil),
	}
	s.report.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("consultas") }
	s.loader = datasync.NewLoader(s.report, func(ctx context.Context) ([]models.PerformanceReport, error) {
		s.mu.Lock()
		year := s.year
		s.mu.Unlock()
		report, err := client.PerformanceReport(ctx, year)
		if err != nil {
			return nil, err
		}
		return []models.PerformanceReport{report}, nil
	}, guard)

	s.years = NewLookup("lookup:anos-letivos", env.Console.LookupCacheTTL, env.Redis, env.Metrics,
		func(ctx context.Context) ([]string, error) { return client.ListSchoolYears(ctx) })
	return s
}

// Years serves the school-year dropdown.
func (s *ConsultasScreen) Years(ctx context.Context) ([]string, error) {
	return s.years.Get(ctx)
}

// SelectYear loads the report for one school year. An empty year asks the
// platform for its current default.
func (s *ConsultasScreen) SelectYear(ctx context.Context, year string) error {
	s.mu.Lock()
	s.year = year
	s.mu.Unlock()
	return s.loader.Load(ctx)
}

// Report returns the last-good report for the selected year.
func (s *ConsultasScreen) Report() (models.PerformanceReport, models.ListState, bool) {
	report, ok := latest(s.report.Snapshot())
	return report, s.report.State(), ok
}

// Close tears the screen down.
func (s *ConsultasScreen) Close() {
	s.report.Reset()
	s.mu.Lock()
	s.year = ""
	s.mu.Unlock()
}

// InsightsScreen drives the AI-insights page.
type InsightsScreen struct {
	col    *datasync.Collection[models.InsightCategory]
	loader *datasync.Loader[models.InsightCategory]
}

func newInsightsScreen(client *upstream.Client, env Env, guard func() error) *InsightsScreen {
	s := &InsightsScreen{col: datasync.NewCollection[models.InsightCategory](nil)}
	s.col.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("insights") }
	s.loader = datasync.NewLoader(s.col, func(ctx context.Context) ([]models.InsightCategory, error) {
		return client.ListInsights(ctx)
	}, guard)
	return s
}

// Load fetches the insight categories. The generation takes a while to
// compute upstream, so the caller's context carries the deadline.
func (s *InsightsScreen) Load(ctx context.Context) error {
	return s.loader.Load(ctx)
}

// View returns the insight categories.
func (s *InsightsScreen) View() ([]models.InsightCategory, models.ListState) {
	return s.col.Snapshot(), s.col.State()
}

// Close tears the screen down.
func (s *InsightsScreen) Close() {
	s.col.Reset()
}
