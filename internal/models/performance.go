package models

// StudentStanding is one row of the per-class top-student ranking.
type StudentStanding struct {
	StudentID int     `json:"aluno_id"`
	Name      string  `json:"nome"`
	Class     string  `json:"turma"`
	Average   float64 `json:"media"`
}

// RetainedStudent is a student flagged for retention by the platform rules.
type RetainedStudent struct {
	StudentID     int    `json:"aluno_id"`
	Name          string `json:"nome"`
	Class         string `json:"turma"`
	SchoolYear    int    `json:"ano"`
	FailingMarks  int    `json:"negativas"`
	Reason        string `json:"motivo"`
}

// TeacherResult ranks a teacher by the average of their students' marks.
type TeacherResult struct {
	TeacherID  int     `json:"professor_id"`
	Name       string  `json:"nome"`
	Discipline string  `json:"disciplina"`
	Average    float64 `json:"media_alunos"`
}

// PerformanceReport is the consultas screen payload for one school year.
type PerformanceReport struct {
	TopStudents    []StudentStanding `json:"top_alunos_turma"`
	Retained       []RetainedStudent `json:"alunos_reprovacao"`
	TopTeachers    []TeacherResult   `json:"top_professores"`
	BottomTeachers []TeacherResult   `json:"bottom_professores"`
}
