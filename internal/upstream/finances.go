package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lusoedu/sge-console/internal/models"
)

// AnnualBalance fetches the aggregated balance for one calendar year.
func (c *Client) AnnualBalance(ctx context.Context, year int) (models.Balance, error) {
	query := url.Values{"ano": []string{strconv.Itoa(year)}}
	var out models.Balance
	if err := c.get(ctx, "/financas/balanco/anual", query, &out); err != nil {
		return models.Balance{}, err
	}
	return out, nil
}

// MonthlyBalance fetches the aggregated balance for one month.
func (c *Client) MonthlyBalance(ctx context.Context, year, month int) (models.Balance, error) {
	query := url.Values{
		"ano": []string{strconv.Itoa(year)},
		"mes": []string{strconv.Itoa(month)},
	}
	var out models.Balance
	if err := c.get(ctx, "/financas/balanco/mensal", query, &out); err != nil {
		return models.Balance{}, err
	}
	return out, nil
}

// ListInvestments fetches every funding line.
func (c *Client) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	var out []models.Investment
	if err := c.get(ctx, "/financas/investimentos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInvestment registers a funding line.
func (c *Client) CreateInvestment(ctx context.Context, draft models.InvestmentDraft) (models.Investment, error) {
	var out models.Investment
	if err := c.post(ctx, "/financas/investimentos", draft, &out); err != nil {
		return models.Investment{}, err
	}
	return out, nil
}

// ListExpenses fetches the expense history, newest first.
func (c *Client) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var out []models.Expense
	if err := c.get(ctx, "/financas/despesas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExpense records an expense against a funding line.
func (c *Client) CreateExpense(ctx context.Context, draft models.ExpenseDraft) (models.Expense, error) {
	var out models.Expense
	if err := c.post(ctx, "/financas/despesas", draft, &out); err != nil {
		return models.Expense{}, err
	}
	return out, nil
}

// DeleteExpense removes an expense. The platform refuses when dependent
// records exist and replies with a detail message the console must show.
func (c *Client) DeleteExpense(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/financas/despesas/%d", id))
}
