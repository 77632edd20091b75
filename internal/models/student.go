package models

// Student mirrors the platform's roster listing record. JSON field names
// follow the platform schema and are not renamed on the way through.
type Student struct {
	ID           int    `json:"Aluno_id"`
	Name         string `json:"Nome"`
	BirthDate    string `json:"Data_Nasc,omitempty"`
	Gender       string `json:"Genero,omitempty"`
	ClassLabel   string `json:"Turma_Desc"`
	GuardianName string `json:"EE_Nome"`
	Phone        string `json:"Telefone,omitempty"`
}

// StudentCreateDraft is the creation-dialog payload.
type StudentCreateDraft struct {
	Name         string `json:"Nome" validate:"required"`
	BirthDate    string `json:"Data_Nasc" validate:"required,datetime=2006-01-02"`
	Phone        string `json:"Telefone"`
	Address      string `json:"Morada"`
	Gender       string `json:"Genero" validate:"required,oneof=M F"`
	SchoolYear   int    `json:"Ano" validate:"required,min=1,max=13"`
	ClassLetter  string `json:"Turma_Letra" validate:"required,len=1,alpha"`
	GuardianName string `json:"EE_Nome"`
}

// StudentProfileDraft is the profile-edit payload. Only personal fields are
// editable through the profile dialog.
type StudentProfileDraft struct {
	Name         string `json:"Nome" validate:"required"`
	Phone        string `json:"Telefone"`
	BirthDate    string `json:"Data_Nasc" validate:"omitempty,datetime=2006-01-02"`
	Gender       string `json:"Genero" validate:"required,oneof=M F"`
	GuardianName string `json:"EE_Nome"`
}

// Grade is one subject's marks for a student in one school year. Component
// marks are optional until filled in; the platform computes nothing here,
// every field is stored as entered.
type Grade struct {
	ID             int    `json:"Nota_id"`
	DisciplineID   int    `json:"Disc_id"`
	DisciplineName string `json:"Disciplina_Nome,omitempty"`
	P1             *int   `json:"Nota_1P,omitempty"`
	P2             *int   `json:"Nota_2P,omitempty"`
	P3             *int   `json:"Nota_3P,omitempty"`
	Exam           *int   `json:"Nota_Ex,omitempty"`
	Final          *int   `json:"Nota_Final,omitempty"`
	SchoolYear     string `json:"Ano_letivo"`
}

// GradeDraft is the grade dialog payload. Marks use the 0-20 scale.
type GradeDraft struct {
	ID           int    `json:"Nota_id,omitempty"`
	DisciplineID int    `json:"Disc_id" validate:"required,min=1"`
	P1           *int   `json:"Nota_1P" validate:"omitempty,min=0,max=20"`
	P2           *int   `json:"Nota_2P" validate:"omitempty,min=0,max=20"`
	P3           *int   `json:"Nota_3P" validate:"omitempty,min=0,max=20"`
	Exam         *int   `json:"Nota_Ex" validate:"omitempty,min=0,max=20"`
	Final        *int   `json:"Nota_Final" validate:"omitempty,min=0,max=20"`
	SchoolYear   string `json:"Ano_letivo" validate:"required"`
}

// Discipline is the lightweight subject lookup record.
type Discipline struct {
	ID       int    `json:"Disc_id"`
	Name     string `json:"Nome"`
	Category string `json:"Categoria,omitempty"`
}
