package models

// DashboardStats is the landing-page summary computed by the platform.
type DashboardStats struct {
	TotalStudents    int     `json:"total_students"`
	TotalStaff       int     `json:"total_staff"`
	FinancialBalance float64 `json:"financial_balance"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
}
