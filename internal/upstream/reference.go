package upstream

import (
	"context"
	"net/url"

	"github.com/lusoedu/sge-console/internal/models"
)

// DashboardStats fetches the landing-page summary.
func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return models.DashboardStats{}, err
	}
	return out, nil
}

// PerformanceReport fetches the consultas statistics for one school year.
func (c *Client) PerformanceReport(ctx context.Context, schoolYear string) (models.PerformanceReport, error) {
	query := url.Values{}
	if schoolYear != "" {
		query.Set("ano_letivo", schoolYear)
	}
	var out models.PerformanceReport
	if err := c.get(ctx, "/consultas/", query, &out); err != nil {
		return models.PerformanceReport{}, err
	}
	return out, nil
}

// ListInsights fetches the AI-generated insight categories.
func (c *Client) ListInsights(ctx context.Context) ([]models.InsightCategory, error) {
	var out []models.InsightCategory
	if err := c.get(ctx, "/ai/insights", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
