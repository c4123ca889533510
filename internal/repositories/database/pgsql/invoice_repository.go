package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/billing_app/internal/models"
	"github.com/SscSPs/billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and their line items.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const selectInvoiceColumns = `
	SELECT invoice_id, user_id, customer_name, tax_percentage, discount_amount, currency, status, total_amount,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM invoices`

const insertItemQuery = `
	INSERT INTO invoice_items (item_id, invoice_id, position, name, unit_price, quantity)
	VALUES ($1, $2, $3, $4, $5, $6);`

// SaveInvoice inserts the invoice row and all item rows in one transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	row, items := mapping.ToModelInvoice(invoice)

	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO invoices (
				invoice_id, user_id, customer_name, tax_percentage, discount_amount, currency, status, total_amount,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err := tx.Exec(ctx, query,
			row.InvoiceID,
			row.UserID,
			row.CustomerName,
			row.TaxPercentage,
			row.DiscountAmount,
			row.Currency,
			row.Status,
			row.TotalAmount,
			row.CreatedAt,
			row.CreatedBy,
			row.LastUpdatedAt,
			row.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert invoice "+row.InvoiceID, err)
		}
		return r.insertItems(ctx, tx, row.InvoiceID, items)
	})
}

// UpdateInvoice rewrites the invoice row and replaces its items in one transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	row, items := mapping.ToModelInvoice(invoice)

	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE invoices
			SET customer_name = $2, tax_percentage = $3, discount_amount = $4, currency = $5, status = $6,
			    total_amount = $7, last_updated_at = $8, last_updated_by = $9
			WHERE invoice_id = $1;
		`
		cmdTag, err := tx.Exec(ctx, query,
			row.InvoiceID,
			row.CustomerName,
			row.TaxPercentage,
			row.DiscountAmount,
			row.Currency,
			row.Status,
			row.TotalAmount,
			row.LastUpdatedAt,
			row.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to update invoice "+row.InvoiceID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, row.InvoiceID)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, row.InvoiceID); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to clear items of invoice "+row.InvoiceID, err)
		}
		return r.insertItems(ctx, tx, row.InvoiceID, items)
	})
}

func (r *PgxInvoiceRepository) insertItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertItemQuery,
			item.ItemID,
			item.InvoiceID,
			item.Position,
			item.Name,
			item.UnitPrice,
			item.Quantity,
		)
	}
	// Close the batch results to surface errors of each insert
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert items of invoice "+invoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice and its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	row, err := scanInvoice(r.Pool.QueryRow(ctx, selectInvoiceColumns+` WHERE invoice_id = $1;`, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find invoice by ID "+invoiceID, err)
	}

	itemsByInvoice, err := r.findItems(ctx, []string{invoiceID})
	if err != nil {
		return nil, err
	}

	invoice, err := mapping.ToDomainInvoice(row, itemsByInvoice[invoiceID])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "stored invoice "+invoiceID+" is invalid", err)
	}
	return invoice, nil
}

// ListInvoicesByUserID retrieves all invoices of a user, newest first, with two queries.
func (r *PgxInvoiceRepository) ListInvoicesByUserID(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, selectInvoiceColumns+` WHERE user_id = $1 ORDER BY created_at DESC, invoice_id;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query invoices for user "+userID, err)
	}
	defer rows.Close()

	invoiceRows := []models.Invoice{}
	for rows.Next() {
		row, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan invoice row for user "+userID, err)
		}
		invoiceRows = append(invoiceRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating invoice rows for user "+userID, err)
	}

	invoices := make([]*domain.Invoice, 0, len(invoiceRows))
	if len(invoiceRows) == 0 {
		return invoices, nil
	}

	ids := make([]string, len(invoiceRows))
	for i, row := range invoiceRows {
		ids[i] = row.InvoiceID
	}
	itemsByInvoice, err := r.findItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, row := range invoiceRows {
		invoice, err := mapping.ToDomainInvoice(row, itemsByInvoice[row.InvoiceID])
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "stored invoice "+row.InvoiceID+" is invalid", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// DeleteInvoice removes the invoice; its items go with it through ON DELETE CASCADE.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

func (r *PgxInvoiceRepository) findItems(ctx context.Context, invoiceIDs []string) (map[string][]models.LineItem, error) {
	query := `
		SELECT item_id, invoice_id, position, name, unit_price, quantity
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query invoice items", err)
	}
	defer rows.Close()

	itemsByInvoice := make(map[string][]models.LineItem, len(invoiceIDs))
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.ItemID,
			&item.InvoiceID,
			&item.Position,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
		); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan invoice item row", err)
		}
		itemsByInvoice[item.InvoiceID] = append(itemsByInvoice[item.InvoiceID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating invoice item rows", err)
	}
	return itemsByInvoice, nil
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.UserID,
		&m.CustomerName,
		&m.TaxPercentage,
		&m.DiscountAmount,
		&m.Currency,
		&m.Status,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
