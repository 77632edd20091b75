package models

// ConfigKind selects which school-structure resource a config screen tab
// operates on.
type ConfigKind string

const (
	KindDisciplines     ConfigKind = "disciplinas"
	KindDepartments     ConfigKind = "departamentos"
	KindTuitionBrackets ConfigKind = "escaloes"
)

// ValidConfigKind reports whether the given kind is a known resource.
func ValidConfigKind(k ConfigKind) bool {
	switch k {
	case KindDisciplines, KindDepartments, KindTuitionBrackets:
		return true
	}
	return false
}

// ConfigItem is a school-structure record. The platform uses a different id
// field and editable field subset per kind, so optional fields cover the
// union and ID() resolves whichever is present.
type ConfigItem struct {
	DisciplineID *int     `json:"Disc_id,omitempty"`
	DepartmentID *int     `json:"Depart_id,omitempty"`
	BracketID    *int     `json:"Escalao_id,omitempty"`
	Name         string   `json:"Nome"`
	Category     string   `json:"Categoria,omitempty"`
	BaseValue    *float64 `json:"Valor_Base,omitempty"`
	Description  string   `json:"Descricao,omitempty"`
}

// ID returns the record identifier regardless of kind, or 0 when absent.
func (c ConfigItem) ID() int {
	switch {
	case c.DisciplineID != nil:
		return *c.DisciplineID
	case c.DepartmentID != nil:
		return *c.DepartmentID
	case c.BracketID != nil:
		return *c.BracketID
	}
	return 0
}

// Department is the lookup record feeding the discipline dialog dropdown.
type Department struct {
	ID   int    `json:"Depart_id"`
	Name string `json:"Nome"`
}

// ConfigDraft is the create/edit payload shared by the config tabs. Kind
// decides which fields the platform reads; validation beyond the common
// required name happens per kind in the screen controller.
type ConfigDraft struct {
	Name        string   `json:"Nome" validate:"required"`
	Category    string   `json:"Categoria"`
	BaseValue   *float64 `json:"Valor_Base" validate:"omitempty,gt=0"`
	Description string   `json:"Descricao"`
}
