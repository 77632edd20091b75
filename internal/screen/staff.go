package screen

import (
	"context"
	"strings"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
)

// staffFetchLimit covers any realistic school's staff roster in one read; the
// screen filters and pages locally.
const staffFetchLimit = 1000

// StaffScreen drives the collaborators page: one-shot load, local search and
// role filter, and the new-collaborator dialog.
type StaffScreen struct {
	client   *upstream.Client
	pageSize int

	mu     sync.Mutex
	search string
	role   string
	page   int

	col    *datasync.Collection[models.StaffMember]
	loader *datasync.Loader[models.StaffMember]
	ctrl   *datasync.Controller[models.StaffMember]

	Create *datasync.Session[models.StaffDraft]

	departments *Lookup[models.Department]
}

func newStaffScreen(client *upstream.Client, env Env, guard func() error) *StaffScreen {
	s := &StaffScreen{
		client:   client,
		pageSize: env.Console.DefaultPageSize,
		page:     1,
		col:      datasync.NewCollection(func(m models.StaffMember) int { return m.ID }),
		Create:   datasync.NewSession[models.StaffDraft](env.Validate),
	}
	s.col.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("staff") }

	s.loader = datasync.NewLoader(s.col, func(ctx context.Context) ([]models.StaffMember, error) {
		return client.ListStaff(ctx, 0, staffFetchLimit)
	}, guard)
	s.ctrl = datasync.NewController(s.col, datasync.PatchLocal, s.loader.Load)

	s.departments = NewLookup("lookup:departamentos", env.Console.LookupCacheTTL, env.Redis, env.Metrics,
		func(ctx context.Context) ([]models.Department, error) { return client.ListDepartments(ctx) })
	return s
}

// Load fetches the staff roster.
func (s *StaffScreen) Load(ctx context.Context) error {
	return s.loader.Load(ctx)
}

// SetFilters records the search term and role filter. Changing either snaps
// the roster window back to the first page.
func (s *StaffScreen) SetFilters(search, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if search != s.search || role != s.role {
		s.page = 1
	}
	s.search = search
	s.role = role
}

// SetPage moves the roster window. Pages below 1 clamp to the first page.
func (s *StaffScreen) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
}

// View projects the roster for the current page and filters. search matches
// name and email; role, when set, is an exact filter.
func (s *StaffScreen) View() ([]models.StaffMember, models.Pagination, models.ListState) {
	s.mu.Lock()
	search, role, page := s.search, s.role, s.page
	s.mu.Unlock()
	rows, pagination := datasync.Project(s.col.Snapshot(), datasync.Query[models.StaffMember]{
		Search:       search,
		SearchFields: func(m models.StaffMember) []string { return []string{m.Name, m.Email} },
		Match: func(m models.StaffMember) bool {
			return role == "" || m.Role == role
		},
		Less: func(a, b models.StaffMember) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		},
		Page:     page,
		PageSize: s.pageSize,
	})
	return rows, pagination, s.col.State()
}

// Filtered returns every row matching the current filters, unpaginated, for
// exports.
func (s *StaffScreen) Filtered(search, role string) []models.StaffMember {
	rows, _ := datasync.Project(s.col.Snapshot(), datasync.Query[models.StaffMember]{
		Search:       search,
		SearchFields: func(m models.StaffMember) []string { return []string{m.Name, m.Email} },
		Match: func(m models.StaffMember) bool {
			return role == "" || m.Role == role
		},
		Less: func(a, b models.StaffMember) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		},
	})
	return rows
}

// Departments serves the dialog's department dropdown.
func (s *StaffScreen) Departments(ctx context.Context) ([]models.Department, error) {
	return s.departments.Get(ctx)
}

// SubmitCreate validates and sends the new-collaborator draft.
func (s *StaffScreen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, func(ctx context.Context, draft models.StaffDraft) error {
		_, err := s.ctrl.Create(ctx, func(ctx context.Context) (models.StaffMember, error) {
			return s.client.CreateStaff(ctx, draft)
		})
		return err
	})
}

// Close tears the screen down.
func (s *StaffScreen) Close() {
	s.col.Reset()
	s.Create.Cancel()
	s.mu.Lock()
	s.search = ""
	s.role = ""
	s.page = 1
	s.mu.Unlock()
}
