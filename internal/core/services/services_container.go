package services

import (
	"github.com/SscSPs/billing_app/internal/core/ports/notifications"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case invoice events are not delivered.
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher notifications.Publisher) *portssvc.ServiceContainer {
	var invoiceOptions []InvoiceServiceOption
	if publisher != nil {
		invoiceOptions = append(invoiceOptions, WithEventPublisher(publisher))
	}

	return &portssvc.ServiceContainer{
		Invoice:   NewInvoiceService(repos.InvoiceRepo, invoiceOptions...),
		Expense:   NewExpenseService(repos.ExpenseRepo),
		Dashboard: NewDashboardService(repos.InvoiceRepo, repos.ExpenseRepo),
	}
}
