package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/oceanminded/insurance-application-form/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrPersonNotFound      = errors.New("person not found")
)

// foreignKeyViolation is the Postgres error code raised when a child row
// references a missing application.
const foreignKeyViolation = "23503"

// ApplicationWriteRepository handles all state-mutating operations for
// applications and their child collections. It operates exclusively against
// the PostgreSQL write store (source of truth).
type ApplicationWriteRepository struct {
	db *sql.DB
}

func NewApplicationWriteRepository(db *sql.DB) *ApplicationWriteRepository {
	return &ApplicationWriteRepository{db: db}
}

// Create inserts the application and all of its child rows in one
// transaction.
func (r *ApplicationWriteRepository) Create(app *models.Application) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO applications (id, first_name, last_name, date_of_birth,
			street, city, state, zip_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	addr := app.Address
	if addr == nil {
		addr = &models.Address{}
	}
	_, err = tx.Exec(query,
		app.ID, app.FirstName, app.LastName, nullTime(app.DateOfBirth),
		nullString(addr.Street), nullString(addr.City), nullString(addr.State), nullString(addr.ZipCode),
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	if err := insertChildren(tx, app); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches the full application with its vehicles and people in
// declared order.
func (r *ApplicationWriteRepository) GetByID(id string) (*models.Application, error) {
	return loadApplication(r.db, id)
}

// Update replaces the application row and both child collections in one
// transaction. Child rows are deleted and re-created (destructive
// replace-all); callers that need identity-preserving edits use the
// dedicated add/delete operations instead.
func (r *ApplicationWriteRepository) Update(app *models.Application) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE applications
		SET first_name = $2, last_name = $3, date_of_birth = $4,
			street = $5, city = $6, state = $7, zip_code = $8,
			updated_at = $9
		WHERE id = $1
	`
	addr := app.Address
	if addr == nil {
		addr = &models.Address{}
	}
	result, err := tx.Exec(query,
		app.ID, app.FirstName, app.LastName, nullTime(app.DateOfBirth),
		nullString(addr.Street), nullString(addr.City), nullString(addr.State), nullString(addr.ZipCode),
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrApplicationNotFound
	}

	if _, err := tx.Exec(`DELETE FROM vehicles WHERE application_id = $1`, app.ID); err != nil {
		return fmt.Errorf("failed to clear vehicles: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM people WHERE application_id = $1`, app.ID); err != nil {
		return fmt.Errorf("failed to clear people: %w", err)
	}
	if err := insertChildren(tx, app); err != nil {
		return err
	}
	return tx.Commit()
}

// AddVehicle appends one vehicle to an application, position after the
// existing ones.
func (r *ApplicationWriteRepository) AddVehicle(applicationID string, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, application_id, vin, make, model, year, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM vehicles WHERE application_id = $2))
	`
	_, err := r.db.Exec(query, v.ID, applicationID,
		nullString(v.VIN), nullString(v.Make), nullString(v.Model), nullInt(v.Year))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == foreignKeyViolation {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to add vehicle: %w", err)
	}
	return nil
}

// AddPerson appends one person to an application.
func (r *ApplicationWriteRepository) AddPerson(applicationID string, p *models.Person) error {
	query := `
		INSERT INTO people (id, application_id, first_name, last_name, relationship, date_of_birth, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM people WHERE application_id = $2))
	`
	_, err := r.db.Exec(query, p.ID, applicationID,
		nullString(p.FirstName), nullString(p.LastName), nullString(p.Relationship), nullTime(p.DateOfBirth))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == foreignKeyViolation {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to add person: %w", err)
	}
	return nil
}

func (r *ApplicationWriteRepository) DeleteVehicle(applicationID, vehicleID string) error {
	result, err := r.db.Exec(
		`DELETE FROM vehicles WHERE application_id = $1 AND id = $2`,
		applicationID, vehicleID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (r *ApplicationWriteRepository) DeletePerson(applicationID, personID string) error {
	result, err := r.db.Exec(
		`DELETE FROM people WHERE application_id = $1 AND id = $2`,
		applicationID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPersonNotFound
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertChildren(tx execer, app *models.Application) error {
	for i, v := range app.Vehicles {
		_, err := tx.Exec(`
			INSERT INTO vehicles (id, application_id, vin, make, model, year, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			v.ID, app.ID, nullString(v.VIN), nullString(v.Make), nullString(v.Model), nullInt(v.Year), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert vehicle: %w", err)
		}
	}
	for i, p := range app.People {
		_, err := tx.Exec(`
			INSERT INTO people (id, application_id, first_name, last_name, relationship, date_of_birth, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, app.ID, nullString(p.FirstName), nullString(p.LastName), nullString(p.Relationship), nullTime(p.DateOfBirth), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}
	return nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// loadApplication is the shared scan path used by the write repository and
// the read repository's Postgres fallback.
func loadApplication(q querier, id string) (*models.Application, error) {
	query := `
		SELECT id, first_name, last_name, date_of_birth,
			   street, city, state, zip_code, created_at, updated_at
		FROM applications
		WHERE id = $1
	`
	var app models.Application
	var dob sql.NullTime
	var street, city, state, zipCode sql.NullString

	err := q.QueryRow(query, id).Scan(
		&app.ID, &app.FirstName, &app.LastName, &dob,
		&street, &city, &state, &zipCode, &app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if dob.Valid {
		t := dob.Time
		app.DateOfBirth = &t
	}
	app.Address = &models.Address{
		Street:  street.String,
		City:    city.String,
		State:   state.String,
		ZipCode: zipCode.String,
	}

	if app.Vehicles, err = loadVehicles(q, id); err != nil {
		return nil, err
	}
	if app.People, err = loadPeople(q, id); err != nil {
		return nil, err
	}
	return &app, nil
}

func loadVehicles(q querier, applicationID string) ([]models.Vehicle, error) {
	rows, err := q.Query(`
		SELECT id, vin, make, model, year
		FROM vehicles
		WHERE application_id = $1
		ORDER BY position`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		var vin, make, model sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&v.ID, &vin, &make, &model, &year); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		v.VIN, v.Make, v.Model = vin.String, make.String, model.String
		if year.Valid {
			y := int(year.Int64)
			v.Year = &y
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func loadPeople(q querier, applicationID string) ([]models.Person, error) {
	rows, err := q.Query(`
		SELECT id, first_name, last_name, relationship, date_of_birth
		FROM people
		WHERE application_id = $1
		ORDER BY position`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		var p models.Person
		var firstName, lastName, relationship sql.NullString
		var dob sql.NullTime
		if err := rows.Scan(&p.ID, &firstName, &lastName, &relationship, &dob); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		p.FirstName, p.LastName, p.Relationship = firstName.String, lastName.String, relationship.String
		if dob.Valid {
			t := dob.Time
			p.DateOfBirth = &t
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
