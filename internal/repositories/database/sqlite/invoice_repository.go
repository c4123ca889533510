package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/billing_app/internal/models"
	"github.com/SscSPs/billing_app/internal/utils/mapping"
)

// InvoiceRepository implements portsrepo.InvoiceRepositoryFacade on SQLite.
type InvoiceRepository struct {
	db *sql.DB
}

var _ portsrepo.InvoiceRepositoryFacade = (*InvoiceRepository)(nil)

const selectInvoiceColumns = `
	SELECT invoice_id, user_id, customer_name, tax_percentage, discount_amount, currency, status, total_amount,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM invoices`

func (r *InvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	row, items := mapping.ToModelInvoice(invoice)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (
				invoice_id, user_id, customer_name, tax_percentage, discount_amount, currency, status, total_amount,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.InvoiceID,
			row.UserID,
			row.CustomerName,
			row.TaxPercentage,
			row.DiscountAmount,
			row.Currency,
			string(row.Status),
			row.TotalAmount,
			formatTime(row.CreatedAt),
			row.CreatedBy,
			formatTime(row.LastUpdatedAt),
			row.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("insert invoice %s: %w", row.InvoiceID, err)
		}
		return insertItems(ctx, tx, items)
	})
}

func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	row, items := mapping.ToModelInvoice(invoice)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE invoices
			SET customer_name = ?, tax_percentage = ?, discount_amount = ?, currency = ?, status = ?,
			    total_amount = ?, last_updated_at = ?, last_updated_by = ?
			WHERE invoice_id = ?`,
			row.CustomerName,
			row.TaxPercentage,
			row.DiscountAmount,
			row.Currency,
			string(row.Status),
			row.TotalAmount,
			formatTime(row.LastUpdatedAt),
			row.LastUpdatedBy,
			row.InvoiceID,
		)
		if err != nil {
			return fmt.Errorf("update invoice %s: %w", row.InvoiceID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update invoice %s: %w", row.InvoiceID, err)
		} else if n == 0 {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, row.InvoiceID)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, row.InvoiceID); err != nil {
			return fmt.Errorf("clear items of invoice %s: %w", row.InvoiceID, err)
		}
		return insertItems(ctx, tx, items)
	})
}

func insertItems(ctx context.Context, tx *sql.Tx, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO invoice_items (item_id, invoice_id, position, name, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ItemID, item.InvoiceID, item.Position, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("insert item %s: %w", item.ItemID, err)
		}
	}
	return nil
}

func (r *InvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	row, err := scanInvoice(r.db.QueryRowContext(ctx, selectInvoiceColumns+` WHERE invoice_id = ?`, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("find invoice %s: %w", invoiceID, err)
	}

	items, err := r.queryItems(ctx, `
		SELECT item_id, invoice_id, position, name, unit_price, quantity
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY position`, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := mapping.ToDomainInvoice(row, items[invoiceID])
	if err != nil {
		return nil, fmt.Errorf("stored invoice %s is invalid: %w", invoiceID, err)
	}
	return invoice, nil
}

func (r *InvoiceRepository) ListInvoicesByUserID(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	invoiceRows, err := r.queryInvoices(ctx, userID)
	if err != nil {
		return nil, err
	}

	invoices := make([]*domain.Invoice, 0, len(invoiceRows))
	if len(invoiceRows) == 0 {
		return invoices, nil
	}

	items, err := r.queryItems(ctx, `
		SELECT ii.item_id, ii.invoice_id, ii.position, ii.name, ii.unit_price, ii.quantity
		FROM invoice_items ii
		JOIN invoices i ON i.invoice_id = ii.invoice_id
		WHERE i.user_id = ?
		ORDER BY ii.invoice_id, ii.position`, userID)
	if err != nil {
		return nil, err
	}

	for _, row := range invoiceRows {
		invoice, err := mapping.ToDomainInvoice(row, items[row.InvoiceID])
		if err != nil {
			return nil, fmt.Errorf("stored invoice %s is invalid: %w", row.InvoiceID, err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", invoiceID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", invoiceID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

// queryInvoices reads all rows before returning so the single connection is free again.
func (r *InvoiceRepository) queryInvoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, selectInvoiceColumns+` WHERE user_id = ? ORDER BY created_at DESC, invoice_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query invoices for user %s: %w", userID, err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		row, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, row)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) queryItems(ctx context.Context, query string, args ...any) (map[string][]models.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoice items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]models.LineItem)
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ItemID, &item.InvoiceID, &item.Position, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan invoice item row: %w", err)
		}
		items[item.InvoiceID] = append(items[item.InvoiceID], item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (models.Invoice, error) {
	var (
		m                        models.Invoice
		status                   string
		createdAt, lastUpdatedAt string
	)
	err := row.Scan(
		&m.InvoiceID,
		&m.UserID,
		&m.CustomerName,
		&m.TaxPercentage,
		&m.DiscountAmount,
		&m.Currency,
		&status,
		&m.TotalAmount,
		&createdAt,
		&m.CreatedBy,
		&lastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Invoice{}, err
	}
	m.Status = models.InvoiceStatus(status)
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Invoice{}, err
	}
	if m.LastUpdatedAt, err = parseTime(lastUpdatedAt); err != nil {
		return models.Invoice{}, err
	}
	return m, nil
}
