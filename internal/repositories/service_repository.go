package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agenda_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const serviceColumns = `id, name, price, duration, description`

type serviceRepository struct {
	db SQLExecutor
}

// NewServiceRepository creates a Postgres-backed ServiceRepository.
func NewServiceRepository(db SQLExecutor) ServiceRepository {
	return &serviceRepository{db: db}
}

// scanService maps a row onto a Service, replacing NULLs with zero values.
func scanService(row scanner) (*models.Service, error) {
	var (
		s           models.Service
		name        sql.NullString
		price       decimal.NullDecimal
		duration    sql.NullInt64
		description sql.NullString
	)
	if err := row.Scan(&s.ID, &name, &price, &duration, &description); err != nil {
		return nil, err
	}
	s.Name = name.String
	s.Price = decimal.Zero
	if price.Valid {
		s.Price = price.Decimal
	}
	s.Duration = int(duration.Int64)
	s.Description = description.String
	return &s, nil
}

// ListServices returns every service ordered by name.
func (r *serviceRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeFailure("list services", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, storeFailure("scan service", err)
		}
		services = append(services, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterate services", err)
	}
	return services, nil
}

// CreateService inserts a service and returns it with its assigned id.
func (r *serviceRepository) CreateService(ctx context.Context, fields models.ServiceFields) (*models.Service, error) {
	query := `INSERT INTO services (name, price, duration, description)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + serviceColumns

	s, err := scanService(r.db.QueryRowContext(ctx, query,
		fields.Name, fields.Price, fields.Duration, fields.Description))
	if err != nil {
		return nil, storeFailure("create service", describePQ(err))
	}
	return s, nil
}

// UpdateService replaces every field of the service.
func (r *serviceRepository) UpdateService(ctx context.Context, id string, fields models.ServiceFields) (*models.Service, error) {
	query := `UPDATE services SET
	            name = $1, price = $2, duration = $3, description = $4
	          WHERE id = $5
	          RETURNING ` + serviceColumns

	s, err := scanService(r.db.QueryRowContext(ctx, query,
		fields.Name, fields.Price, fields.Duration, fields.Description, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, notFound("update service", id)
		}
		return nil, storeFailure("update service", describePQ(err))
	}
	return s, nil
}

// DeleteService removes a service. Appointments referencing it are left untouched.
func (r *serviceRepository) DeleteService(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if isMalformedID(err) {
		return notFound("delete service", id)
	}
	if err != nil {
		return storeFailure("delete service", describePQ(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeFailure("delete service", err)
	}
	if rowsAffected == 0 {
		return notFound("delete service", id)
	}
	return nil
}

// describePQ adds the Postgres error code and constraint to driver errors.
func describePQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Constraint != "" {
			return fmt.Errorf("%s (%s, constraint: %s)", pqErr.Message, pqErr.Code.Name(), pqErr.Constraint)
		}
		return fmt.Errorf("%s (%s)", pqErr.Message, pqErr.Code.Name())
	}
	return err
}

// isMalformedID reports an id Postgres could not parse as a uuid. No row can have
// such an id.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_text_representation"
}
