package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/printshop/api-go/internal/model"
)

func (s *Store) CreateCustomer(ctx context.Context, customer model.Customer) (model.Customer, error) {
	customer.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone, notes, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Notes,
		customer.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return model.Customer{}, err
	}
	if customer.ID, err = res.LastInsertId(); err != nil {
		return model.Customer{}, err
	}
	return customer, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, notes, created_at FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

func (s *Store) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, notes, created_at FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, customer)
	}
	return out, rows.Err()
}

// UpdateCustomer patches contact fields. Identity (id, createdAt) is
// immutable.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, patch model.CustomerPatch) (model.Customer, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers
         SET name = COALESCE(?, name),
             email = COALESCE(?, email),
             phone = COALESCE(?, phone),
             notes = COALESCE(?, notes)
         WHERE id = ?`,
		nullableString(patch.Name),
		nullableString(patch.Email),
		nullableString(patch.Phone),
		nullableString(patch.Notes),
		id,
	)
	if err != nil {
		return model.Customer{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Customer{}, err
	}
	if n == 0 {
		return model.Customer{}, model.ErrNotFound
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes the customer only. Jobs keep their customer_id;
// detail lookups report a nil customer for them.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanCustomer(row rowScanner) (model.Customer, error) {
	var (
		customer  model.Customer
		createdMs int64
	)
	err := row.Scan(&customer.ID, &customer.Name, &customer.Email,
		&customer.Phone, &customer.Notes, &createdMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, model.ErrNotFound
		}
		return model.Customer{}, err
	}
	customer.CreatedAt = time.UnixMilli(createdMs)
	return customer, nil
}
