package screen

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
)

// FinancesScreen drives the finance page: the annual or monthly balance, the
// funding lines with their server-computed running totals, the expense
// history, and the new-funding and new-expense dialogs. Every write refetches
// rather than patching locally, because the platform derives balances and
// accumulated totals from the written rows.
type FinancesScreen struct {
	client *upstream.Client

	mu    sync.Mutex
	year  int
	month int // 0 selects the annual view

	balance       *datasync.Collection[models.Balance]
	balanceLoader *datasync.Loader[models.Balance]

	investments       *datasync.Collection[models.Investment]
	investmentsLoader *datasync.Loader[models.Investment]
	investmentCtrl    *datasync.Controller[models.Investment]

	expenses       *datasync.Collection[models.Expense]
	expensesLoader *datasync.Loader[models.Expense]
	expenseCtrl    *datasync.Controller[models.Expense]

	Investment *datasync.Session[models.InvestmentDraft]
	Expense    *datasync.Session[models.ExpenseDraft]
}

func newFinancesScreen(client *upstream.Client, env Env, guard func() error) *FinancesScreen {
	s := &FinancesScreen{
		client:      client,
		balance:     datasync.NewCollection[models.Balance](nil),
		investments: datasync.NewCollection(func(i models.Investment) int { return i.ID }),
		expenses:    datasync.NewCollection(func(e models.Expense) int { return e.ID }),
		Investment: datasync.NewSession(env.Validate, func(d *models.InvestmentDraft) error {
			return centPrecision(d.Amount)
		}),
		Expense: datasync.NewSession(env.Validate, func(d *models.ExpenseDraft) error {
			return centPrecision(d.Amount)
		}),
	}
	s.balance.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("finances_balance") }
	s.investments.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("finances_investments") }
	s.expenses.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("finances_expenses") }

	s.balanceLoader = datasync.NewLoader(s.balance, func(ctx context.Context) ([]models.Balance, error) {
		s.mu.Lock()
		year, month := s.year, s.month
		s.mu.Unlock()
		var (
			balance models.Balance
			err     error
		)
		if month > 0 {
			balance, err = client.MonthlyBalance(ctx, year, month)
		} else {
			balance, err = client.AnnualBalance(ctx, year)
		}
		if err != nil {
			return nil, err
		}
		return []models.Balance{balance}, nil
	}, guard)

	s.investmentsLoader = datasync.NewLoader(s.investments, func(ctx context.Context) ([]models.Investment, error) {
		return client.ListInvestments(ctx)
	}, guard)
	s.expensesLoader = datasync.NewLoader(s.expenses, func(ctx context.Context) ([]models.Expense, error) {
		return client.ListExpenses(ctx)
	}, guard)

	s.investmentCtrl = datasync.NewController(s.investments, datasync.Refetch, s.refetchAll)
	s.expenseCtrl = datasync.NewController(s.expenses, datasync.Refetch, s.refetchAll)
	return s
}

// centPrecision rejects amounts finer than two decimal places.
func centPrecision(amount float64) error {
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return errors.New("amount must have at most two decimal places")
	}
	return nil
}

// refetchAll reloads every list a finance write can invalidate.
func (s *FinancesScreen) refetchAll(ctx context.Context) error {
	if err := s.investmentsLoader.Load(ctx); err != nil {
		return err
	}
	if err := s.expensesLoader.Load(ctx); err != nil {
		return err
	}
	return s.balanceLoader.Load(ctx)
}

// Load fetches the full finance view for the given year.
func (s *FinancesScreen) Load(ctx context.Context, year int) error {
	s.mu.Lock()
	s.year = year
	s.month = 0
	s.mu.Unlock()
	return s.refetchAll(ctx)
}

// SetPeriod switches between the annual (month 0) and monthly balance views.
func (s *FinancesScreen) SetPeriod(ctx context.Context, year, month int) error {
	s.mu.Lock()
	s.year = year
	s.month = month
	s.mu.Unlock()
	return s.balanceLoader.Load(ctx)
}

// Period returns the selected balance period. Month 0 means annual view.
func (s *FinancesScreen) Period() (year, month int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month
}

// Balance returns the aggregated balance for the selected period.
func (s *FinancesScreen) Balance() (models.Balance, models.ListState, bool) {
	balance, ok := latest(s.balance.Snapshot())
	return balance, s.balance.State(), ok
}

// Investments returns the funding lines in server order.
func (s *FinancesScreen) Investments() ([]models.Investment, models.ListState) {
	return s.investments.Snapshot(), s.investments.State()
}

// Expenses returns the expense history.
func (s *FinancesScreen) Expenses() ([]models.Expense, models.ListState) {
	return s.expenses.Snapshot(), s.expenses.State()
}

// SubmitInvestment validates and sends the new-funding draft, then refetches
// the finance lists so the server-computed totals stay authoritative.
func (s *FinancesScreen) SubmitInvestment(ctx context.Context) error {
	return s.Investment.Submit(ctx, func(ctx context.Context, draft models.InvestmentDraft) error {
		_, err := s.investmentCtrl.Create(ctx, func(ctx context.Context) (models.Investment, error) {
			return s.client.CreateInvestment(ctx, draft)
		})
		return err
	})
}

// SubmitExpense validates and sends the new-expense draft.
func (s *FinancesScreen) SubmitExpense(ctx context.Context) error {
	return s.Expense.Submit(ctx, func(ctx context.Context, draft models.ExpenseDraft) error {
		_, err := s.expenseCtrl.Create(ctx, func(ctx context.Context) (models.Expense, error) {
			return s.client.CreateExpense(ctx, draft)
		})
		return err
	})
}

// DeleteExpense removes an expense. A platform refusal (dependent records)
// leaves every list untouched and surfaces the detail message.
func (s *FinancesScreen) DeleteExpense(ctx context.Context, id int) error {
	return s.expenseCtrl.Delete(ctx, id, func(ctx context.Context) error {
		return s.client.DeleteExpense(ctx, id)
	})
}

// Close tears the screen down.
func (s *FinancesScreen) Close() {
	s.balance.Reset()
	s.investments.Reset()
	s.expenses.Reset()
	s.Investment.Cancel()
	s.Expense.Cancel()
	s.mu.Lock()
	s.year = 0
	s.month = 0
	s.mu.Unlock()
}
