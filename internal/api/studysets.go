package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edusenior/eduterm/internal/models"
	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

// ListStudySets fetches study sets under the given filter. Unset filter
// fields are omitted from the query string, never sent empty.
func (c *Client) ListStudySets(ctx context.Context, filter models.StudySetFilter) ([]models.StudySet, error) {
	query := url.Values{}
	setIfPresent(query, "search", filter.Search)
	setIfPresent(query, "subject", filter.Subject)
	setIfPresent(query, "type", filter.Type)
	setIfPresent(query, "ownership", filter.Ownership)
	setIfPresent(query, "sort", filter.Sort)

	var sets []models.StudySet
	if err := c.do(ctx, http.MethodGet, "/study-sets", query, nil, &sets, true); err != nil {
		return nil, err
	}
	return sets, nil
}

// GetStudySet fetches a single study set by id.
func (c *Client) GetStudySet(ctx context.Context, id int64) (*models.StudySet, error) {
	var set models.StudySet
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/study-sets/%d", id), nil, nil, &set, true); err != nil {
		return nil, err
	}
	return &set, nil
}

// CreateStudySet creates a study set, optionally seeding the first item and
// an initial class assignment.
func (c *Client) CreateStudySet(ctx context.Context, req models.CreateStudySetRequest) (*models.StudySet, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	var set models.StudySet
	if err := c.do(ctx, http.MethodPost, "/study-sets", nil, req, &set, true); err != nil {
		return nil, err
	}
	return &set, nil
}

// UpdateStudySet updates the given fields of a study set.
func (c *Client) UpdateStudySet(ctx context.Context, id int64, req models.UpdateStudySetRequest) (*models.StudySet, error) {
	var set models.StudySet
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/study-sets/%d", id), nil, req, &set, true); err != nil {
		return nil, err
	}
	return &set, nil
}

// MarkOffline flags a study set as downloaded for the current user.
func (c *Client) MarkOffline(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/study-sets/%d/offline", id), nil, nil, nil, true)
}

// RemoveOffline clears the downloaded flag for the current user.
func (c *Client) RemoveOffline(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/study-sets/%d/offline", id), nil, nil, nil, true)
}

// DeleteStudySet is a named extension point. The delete affordance exists in
// the product but its semantics (hard delete vs archival) are undecided, so
// the operation is deliberately left unimplemented.
func (c *Client) DeleteStudySet(ctx context.Context, id int64) error {
	return appErrors.Clone(appErrors.ErrNotImplemented, "study set deletion is not available yet")
}

func setIfPresent(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
