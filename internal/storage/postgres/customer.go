package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishop-io/ishop-backend/internal/domain/customer"
)

const (
	registerCustomerSQL = `INSERT INTO customers
		(user_id, first_name, last_name, date_of_birth, email, gender, address, postal_code, state, country, mobile, password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	listCustomersSQL = `SELECT COALESCE(user_id, ''), first_name, last_name, date_of_birth,
		email, gender, address, postal_code, state, country, mobile, password
		FROM customers ORDER BY id`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Register inserts the submitted customer record as-is.
func (r *CustomerRepository) Register(ctx context.Context, c *customer.Customer) error {
	_, err := r.pool.Exec(ctx, registerCustomerSQL,
		c.UserID, c.FirstName, c.LastName, c.DateOfBirth,
		c.Email, c.Gender, c.Address, c.PostalCode,
		c.State, c.Country, c.Mobile, c.Password,
	)
	if err != nil {
		return errors.Wrap(err, "registering customer")
	}
	return nil
}

// List returns all registered customers in insertion order.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing customers")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.Customer, error) {
		var c customer.Customer
		err := row.Scan(
			&c.UserID, &c.FirstName, &c.LastName, &c.DateOfBirth,
			&c.Email, &c.Gender, &c.Address, &c.PostalCode,
			&c.State, &c.Country, &c.Mobile, &c.Password,
		)
		return c, err
	})
}
