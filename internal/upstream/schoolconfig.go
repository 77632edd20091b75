package upstream

import (
	"context"
	"fmt"

	"github.com/lusoedu/sge-console/internal/models"
)

// ListConfigItems fetches the records for one school-structure tab.
func (c *Client) ListConfigItems(ctx context.Context, kind models.ConfigKind) ([]models.ConfigItem, error) {
	var out []models.ConfigItem
	if err := c.get(ctx, fmt.Sprintf("/config-escolar/%s/", kind), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDepartments fetches the department lookup for the discipline dialog.
func (c *Client) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	if err := c.get(ctx, "/config-escolar/departamentos/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConfigItem creates a record under one tab.
func (c *Client) CreateConfigItem(ctx context.Context, kind models.ConfigKind, draft models.ConfigDraft) (models.ConfigItem, error) {
	var out models.ConfigItem
	if err := c.post(ctx, fmt.Sprintf("/config-escolar/%s/", kind), draft, &out); err != nil {
		return models.ConfigItem{}, err
	}
	return out, nil
}

// UpdateConfigItem edits a record under one tab.
func (c *Client) UpdateConfigItem(ctx context.Context, kind models.ConfigKind, id int, draft models.ConfigDraft) (models.ConfigItem, error) {
	var out models.ConfigItem
	if err := c.put(ctx, fmt.Sprintf("/config-escolar/%s/%d", kind, id), draft, &out); err != nil {
		return models.ConfigItem{}, err
	}
	return out, nil
}

// DeleteConfigItem removes a record. Deletes of referenced records come back
// with a dependency detail message.
func (c *Client) DeleteConfigItem(ctx context.Context, kind models.ConfigKind, id int) error {
	return c.delete(ctx, fmt.Sprintf("/config-escolar/%s/%d", kind, id))
}
