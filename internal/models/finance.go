package models

// Investment mirrors the platform's funding-line record, including the
// server-computed running totals. Those totals are display-only here; the
// console never recomputes them.
type Investment struct {
	ID               int     `json:"id"`
	Kind             string  `json:"tipo_investimento"`
	FundingYear      int     `json:"ano_financiamento"`
	ApprovedValue    float64 `json:"valor_aprovado"`
	PeriodRevenue    float64 `json:"total_receita_periodo"`
	PeriodExpense    float64 `json:"total_despesa_periodo"`
	AccumulatedSpend float64 `json:"total_gasto_acumulado"`
	RemainingBalance float64 `json:"saldo_restante"`
}

// Balance is the platform's aggregated balance view for a year or month.
type Balance struct {
	Period       string       `json:"periodo"`
	TotalRevenue float64      `json:"total_receita"`
	TotalExpense float64      `json:"total_despesa"`
	Net          float64      `json:"saldo"`
	Investments  []Investment `json:"detalhe_investimentos"`
}

// Expense is one historical expense transaction.
type Expense struct {
	ID             int     `json:"id"`
	Description    string  `json:"descricao"`
	Amount         float64 `json:"valor"`
	InvestmentID   *int    `json:"investimento_id,omitempty"`
	InvestmentName string  `json:"investimento_nome,omitempty"`
}

// InvestmentDraft is the new-funding dialog payload.
type InvestmentDraft struct {
	Kind        string  `json:"Tipo" validate:"required"`
	Amount      float64 `json:"Valor" validate:"required,gt=0"`
	FundingYear int     `json:"Ano" validate:"required,min=2000,max=2100"`
	Notes       string  `json:"Observacoes"`
}

// ExpenseDraft is the new-expense dialog payload.
type ExpenseDraft struct {
	Description  string  `json:"descricao" validate:"required"`
	Amount       float64 `json:"valor" validate:"required,gt=0"`
	InvestmentID *int    `json:"investimento_id" validate:"omitempty,min=1"`
}
