package models

// ClassSummary is the turma lookup record used to populate year and class
// dropdowns.
type ClassSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"nome"`
	SchoolYear string `json:"ano_letivo"`
}

// ClassInfo is the detail header for a selected class.
type ClassInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"nome"`
	SchoolYear string `json:"ano_letivo"`
	Director   string `json:"diretor"`
}

// TeacherAssignment links a discipline to the staff member teaching it in a
// class.
type TeacherAssignment struct {
	DisciplineID   int    `json:"disciplina_id"`
	DisciplineName string `json:"disciplina"`
	TeacherName    string `json:"professor"`
	TeacherID      int    `json:"professor_id"`
}

// ClassStudent is a roster entry within class details.
type ClassStudent struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
}

// ClassGrade is one student's marks for one discipline inside the class
// grade grid. The final column is computed by the platform.
type ClassGrade struct {
	StudentID      int    `json:"aluno_id"`
	StudentName    string `json:"aluno_nome"`
	DisciplineID   int    `json:"disciplina_id"`
	DisciplineName string `json:"disciplina_nome"`
	P1             int    `json:"p1"`
	P2             int    `json:"p2"`
	P3             int    `json:"p3"`
	Exam           int    `json:"exame"`
	Final          int    `json:"final"`
}

// ClassDetails aggregates everything the class screen renders.
type ClassDetails struct {
	Info     ClassInfo           `json:"info"`
	Teachers []TeacherAssignment `json:"professores"`
	Students []ClassStudent      `json:"alunos"`
	Grades   []ClassGrade        `json:"notas"`
}

// ClassGradeDraft is one row of the batch grade-edit grid. Marks use the
// 0-20 scale; the final average stays with the platform.
type ClassGradeDraft struct {
	StudentID    int `json:"aluno_id" validate:"required,min=1"`
	DisciplineID int `json:"disciplina_id" validate:"required,min=1"`
	P1           int `json:"p1" validate:"min=0,max=20"`
	P2           int `json:"p2" validate:"min=0,max=20"`
	P3           int `json:"p3" validate:"min=0,max=20"`
	Exam         int `json:"exame" validate:"min=0,max=20"`
}

// TeacherAssignmentDraft is the teacher-per-discipline edit payload.
type TeacherAssignmentDraft struct {
	DisciplineID int `json:"disciplina_id" validate:"required,min=1"`
	TeacherID    int `json:"professor_id" validate:"required,min=1"`
}

// TeacherAssignmentsDraft replaces a class's full discipline-teacher mapping
// in one write.
type TeacherAssignmentsDraft struct {
	Assignments []TeacherAssignmentDraft `json:"professores" validate:"required,min=1,dive"`
}

// TransitionResult echoes the platform's year-end transition outcome.
type TransitionResult struct {
	NewYear string            `json:"novo_ano"`
	Details TransitionDetails `json:"detalhes"`
}

// TransitionDetails carries the platform's promotion counters.
type TransitionDetails struct {
	Promoted int `json:"transitados"`
	Retained int `json:"reprovados"`
}
