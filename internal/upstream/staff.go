package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lusoedu/sge-console/internal/models"
)

// ListStaff fetches the staff roster. The platform pages with skip/limit;
// the console passes a high limit and projects locally.
func (c *Client) ListStaff(ctx context.Context, skip, limit int) ([]models.StaffMember, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []models.StaffMember
	if err := c.get(ctx, "/staff/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStaff registers a new collaborator and returns the persisted record.
func (c *Client) CreateStaff(ctx context.Context, draft models.StaffDraft) (models.StaffMember, error) {
	var out models.StaffMember
	if err := c.post(ctx, "/staff/", draft, &out); err != nil {
		return models.StaffMember{}, err
	}
	return out, nil
}
