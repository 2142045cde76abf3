package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edusenior/eduterm/internal/models"
)

// ListClasses fetches every class visible to the current user. There is no
// fetch-by-id endpoint; callers resolving a single class scan this list.
func (c *Client) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	var classes []models.ClassGroup
	if err := c.do(ctx, http.MethodGet, "/study-sets/classes", nil, nil, &classes, true); err != nil {
		return nil, err
	}
	return classes, nil
}

// CreateClass creates a class owned by the current teacher.
func (c *Client) CreateClass(ctx context.Context, req models.CreateClassRequest) (*models.ClassGroup, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	var class models.ClassGroup
	if err := c.do(ctx, http.MethodPost, "/study-sets/classes", nil, req, &class, true); err != nil {
		return nil, err
	}
	return &class, nil
}

// UpdateClass updates the given fields of a class.
func (c *Client) UpdateClass(ctx context.Context, classID int64, req models.UpdateClassRequest) (*models.ClassGroup, error) {
	var class models.ClassGroup
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/study-sets/classes/%d", classID), nil, req, &class, true); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListClassStudents fetches the enrollment roster of one class.
func (c *Client) ListClassStudents(ctx context.Context, classID int64) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/study-sets/classes/%d/students", classID), nil, nil, &students, true); err != nil {
		return nil, err
	}
	return students, nil
}

// AddStudents enrolls a batch of students into a class.
func (c *Client) AddStudents(ctx context.Context, classID int64, studentIDs []int64) (*models.AddStudentsResult, error) {
	payload := map[string][]int64{"student_ids": studentIDs}
	var result models.AddStudentsResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/study-sets/classes/%d/students", classID), nil, payload, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveStudent removes a single student from a class.
func (c *Client) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/study-sets/classes/%d/students/%d", classID, studentID), nil, nil, nil, true)
}

// SearchUsers finds students by name or email for the add-students dialog.
func (c *Client) SearchUsers(ctx context.Context, queryText string) ([]models.Student, error) {
	query := url.Values{}
	query.Set("query", queryText)

	var users []models.Student
	if err := c.do(ctx, http.MethodGet, "/study-sets/users/search", query, nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAssignments fetches the assignments of one class, with denormalized
// study set fields for display.
func (c *Client) ListAssignments(ctx context.Context, classID int64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/study-sets/classes/%d/assignments", classID), nil, nil, &assignments, true); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateAssignment assigns a study set to a class.
func (c *Client) CreateAssignment(ctx context.Context, classID int64, req models.CreateAssignmentRequest) (*models.CreateAssignmentResult, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	var result models.CreateAssignmentResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/study-sets/classes/%d/assignments", classID), nil, req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}
