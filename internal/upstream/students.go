package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lusoedu/sge-console/internal/models"
)

// StudentListParams narrows the roster read.
type StudentListParams struct {
	Search string
	Skip   int
	Limit  int
}

// ListStudents fetches the roster, optionally server-filtered by search.
func (c *Client) ListStudents(ctx context.Context, params StudentListParams) ([]models.Student, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	var out []models.Student
	if err := c.get(ctx, "/students/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStudent registers a new student and returns the persisted record.
func (c *Client) CreateStudent(ctx context.Context, draft models.StudentCreateDraft) (models.Student, error) {
	var out models.Student
	if err := c.post(ctx, "/students/", draft, &out); err != nil {
		return models.Student{}, err
	}
	return out, nil
}

// UpdateStudent edits a student's personal fields and returns the echo.
func (c *Client) UpdateStudent(ctx context.Context, id int, draft models.StudentProfileDraft) (models.Student, error) {
	var out models.Student
	if err := c.put(ctx, fmt.Sprintf("/students/%d", id), draft, &out); err != nil {
		return models.Student{}, err
	}
	return out, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/students/%d", id))
}

// ListGrades fetches one student's grade history across school years.
func (c *Client) ListGrades(ctx context.Context, studentID int) ([]models.Grade, error) {
	var out []models.Grade
	if err := c.get(ctx, fmt.Sprintf("/students/%d/grades", studentID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGrade records a new grade row for a student.
func (c *Client) CreateGrade(ctx context.Context, studentID int, draft models.GradeDraft) (models.Grade, error) {
	var out models.Grade
	if err := c.post(ctx, fmt.Sprintf("/students/%d/grades", studentID), draft, &out); err != nil {
		return models.Grade{}, err
	}
	return out, nil
}

// UpdateGrade edits an existing grade row.
func (c *Client) UpdateGrade(ctx context.Context, gradeID int, draft models.GradeDraft) (models.Grade, error) {
	var out models.Grade
	if err := c.put(ctx, fmt.Sprintf("/students/grades/%d", gradeID), draft, &out); err != nil {
		return models.Grade{}, err
	}
	return out, nil
}

// DeleteGrade removes a grade row.
func (c *Client) DeleteGrade(ctx context.Context, gradeID int) error {
	return c.delete(ctx, fmt.Sprintf("/students/grades/%d", gradeID))
}

// ListDisciplines fetches the subject lookup used by grade dialogs.
func (c *Client) ListDisciplines(ctx context.Context) ([]models.Discipline, error) {
	var out []models.Discipline
	if err := c.get(ctx, "/students/disciplinas/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSchoolYears fetches the distinct school years with recorded grades.
func (c *Client) ListSchoolYears(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/students/anos-letivos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
