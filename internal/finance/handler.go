package finance

import (
	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

// Register mounts one list controller per finance resource under r:
// /income, /expenses, /cashflow, /sales, /suppliers.
func Register(r fiber.Router, svc *Service) {
	listing.Mount(r.Group("/income"), workspace.Provide("finance.income",
		func() listing.Definition[models.Income, models.IncomeDraft] { return IncomeDefinition(svc.Income) }))

	listing.Mount(r.Group("/expenses"), workspace.Provide("finance.expenses",
		func() listing.Definition[models.Expense, models.ExpenseDraft] { return ExpenseDefinition(svc.Expenses) }))

	listing.Mount(r.Group("/cashflow"), workspace.Provide("finance.cashflow",
		func() listing.Definition[models.CashFlow, models.CashFlowDraft] { return CashFlowDefinition(svc.CashFlow) }))

	listing.Mount(r.Group("/sales"), workspace.Provide("finance.sales",
		func() listing.Definition[models.Sale, models.SaleDraft] { return SaleDefinition(svc.Sales) }))

	listing.Mount(r.Group("/suppliers"), workspace.Provide("finance.suppliers",
		func() listing.Definition[models.Supplier, models.SupplierDraft] { return SupplierDefinition(svc.Suppliers) }))
}
