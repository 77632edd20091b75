package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// SchoolConfigScreen drives the school-structure page: three tabs sharing
// one CRUD shape over disciplines, departments and tuition brackets. One
// draft session serves every tab; which tab it belongs to is fixed when the
// dialog opens.
type SchoolConfigScreen struct {
	client *upstream.Client

	mu     sync.Mutex
	kind   models.ConfigKind
	editID int

	cols    map[models.ConfigKind]*datasync.Collection[models.ConfigItem]
	loaders map[models.ConfigKind]*datasync.Loader[models.ConfigItem]
	ctrls   map[models.ConfigKind]*datasync.Controller[models.ConfigItem]

	Draft *datasync.Session[models.ConfigDraft]

	departments *Lookup[models.Department]
}

func newSchoolConfigScreen(client *upstream.Client, env Env, guard func() error) *SchoolConfigScreen {
	s := &SchoolConfigScreen{
		client:  client,
		cols:    make(map[models.ConfigKind]*datasync.Collection[models.ConfigItem]),
		loaders: make(map[models.ConfigKind]*datasync.Loader[models.ConfigItem]),
		ctrls:   make(map[models.ConfigKind]*datasync.Controller[models.ConfigItem]),
	}
	s.Draft = datasync.NewSession(env.Validate, func(d *models.ConfigDraft) error {
		if s.ActiveKind() == models.KindTuitionBrackets && d.BaseValue == nil {
			return errors.New("tuition bracket needs a base value")
		}
		return nil
	})

	for _, kind := range []models.ConfigKind{models.KindDisciplines, models.KindDepartments, models.KindTuitionBrackets} {
		kind := kind
		col := datasync.NewCollection(func(item models.ConfigItem) int { return item.ID() })
		col.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("config_" + string(kind)) }
		loader := datasync.NewLoader(col, func(ctx context.Context) ([]models.ConfigItem, error) {
			return client.ListConfigItems(ctx, kind)
		}, guard)
		s.cols[kind] = col
		s.loaders[kind] = loader
		s.ctrls[kind] = datasync.NewController(col, datasync.PatchLocal, loader.Load)
	}

	s.departments = NewLookup("lookup:departamentos", env.Console.LookupCacheTTL, env.Redis, env.Metrics,
		func(ctx context.Context) ([]models.Department, error) { return client.ListDepartments(ctx) })
	return s
}

// Load fetches one tab's records.
func (s *SchoolConfigScreen) Load(ctx context.Context, kind models.ConfigKind) error {
	if !models.ValidConfigKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown config kind")
	}
	return s.loaders[kind].Load(ctx)
}

// View projects one tab's records with a local search over the name.
func (s *SchoolConfigScreen) View(kind models.ConfigKind, search string) ([]models.ConfigItem, models.ListState, error) {
	if !models.ValidConfigKind(kind) {
		return nil, models.ListState{}, appErrors.Clone(appErrors.ErrValidation, "unknown config kind")
	}
	col := s.cols[kind]
	rows, _ := datasync.Project(col.Snapshot(), datasync.Query[models.ConfigItem]{
		Search:       search,
		SearchFields: func(item models.ConfigItem) []string { return []string{item.Name} },
	})
	return rows, col.State(), nil
}

// Departments serves the discipline dialog's department dropdown.
func (s *SchoolConfigScreen) Departments(ctx context.Context) ([]models.Department, error) {
	return s.departments.Get(ctx)
}

// OpenCreate opens a blank draft for one tab.
func (s *SchoolConfigScreen) OpenCreate(kind models.ConfigKind) error {
	if !models.ValidConfigKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown config kind")
	}
	s.mu.Lock()
	s.kind = kind
	s.editID = 0
	s.mu.Unlock()
	s.Draft.OpenCreate(models.ConfigDraft{})
	return nil
}

// OpenEdit seeds the draft from an existing record on one tab.
func (s *SchoolConfigScreen) OpenEdit(kind models.ConfigKind, id int) error {
	if !models.ValidConfigKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown config kind")
	}
	var seed *models.ConfigItem
	for _, item := range s.cols[kind].Snapshot() {
		if item.ID() == id {
			item := item
			seed = &item
			break
		}
	}
	if seed == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	s.mu.Lock()
	s.kind = kind
	s.editID = id
	s.mu.Unlock()
	s.Draft.OpenEdit(models.ConfigDraft{
		Name:        seed.Name,
		Category:    seed.Category,
		BaseValue:   seed.BaseValue,
		Description: seed.Description,
	})
	return nil
}

// ActiveKind returns the tab the open draft belongs to.
func (s *SchoolConfigScreen) ActiveKind() models.ConfigKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Submit validates and sends the open draft to its tab's endpoint.
func (s *SchoolConfigScreen) Submit(ctx context.Context) error {
	s.mu.Lock()
	kind := s.kind
	editID := s.editID
	s.mu.Unlock()
	if !models.ValidConfigKind(kind) {
		return appErrors.ErrDraftClosed
	}
	ctrl := s.ctrls[kind]
	return s.Draft.Submit(ctx, func(ctx context.Context, draft models.ConfigDraft) error {
		if editID != 0 {
			_, err := ctrl.Update(ctx, func(ctx context.Context) (models.ConfigItem, error) {
				return s.client.UpdateConfigItem(ctx, kind, editID, draft)
			})
			return err
		}
		_, err := ctrl.Create(ctx, func(ctx context.Context) (models.ConfigItem, error) {
			return s.client.CreateConfigItem(ctx, kind, draft)
		})
		return err
	})
}

// Delete removes a record from one tab. Platform refusals over dependent
// records surface their detail message and leave the list untouched.
func (s *SchoolConfigScreen) Delete(ctx context.Context, kind models.ConfigKind, id int) error {
	if !models.ValidConfigKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown config kind")
	}
	return s.ctrls[kind].Delete(ctx, id, func(ctx context.Context) error {
		return s.client.DeleteConfigItem(ctx, kind, id)
	})
}

// Close tears the screen down.
func (s *SchoolConfigScreen) Close() {
	for _, col := range s.cols {
		col.Reset()
	}
	s.Draft.Cancel()
	s.mu.Lock()
	s.kind = ""
	s.editID = 0
	s.mu.Unlock()
}
