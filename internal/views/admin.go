package views

type SalesPoint struct {
	Month string
	Sales int
}

type AdminUser struct {
	ID    int
	Name  string
	Role  string
	Email string
}

type AdminSummary struct {
	TotalSales    int
	TotalUsers    int
	TotalProducts int
	PendingOrders int
	MonthlySales  []SalesPoint
	RecentUsers   []AdminUser
}

// AdminDashboard returns the dashboard's static sample figures. No backend
// endpoint exists for them.
func AdminDashboard() AdminSummary {
	return AdminSummary{
		TotalSales:    120000,
		TotalUsers:    1234,
		TotalProducts: 567,
		PendingOrders: 42,
		MonthlySales: []SalesPoint{
			{Month: "January", Sales: 12000},
			{Month: "February", Sales: 15000},
			{Month: "March", Sales: 18000},
			{Month: "April", Sales: 20000},
			{Month: "May", Sales: 24000},
			{Month: "June", Sales: 22000},
		},
		RecentUsers: []AdminUser{
			{ID: 1, Name: "Jane Doe", Role: "Seller", Email: "jane@example.com"},
			{ID: 2, Name: "John Smith", Role: "Buyer", Email: "john@example.com"},
			{ID: 3, Name: "Alice Johnson", Role: "Seller", Email: "alice@example.com"},
		},
	}
}
