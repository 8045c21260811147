package datainfra

import (
	"time"

	"github.com/uptrace/bun"
)

// Bun models for the back-office schema. Columns mirror the production
// database; the domain structs in package insurance are mapped explicitly
// rather than tagged for bun, so wire format and storage format stay
// independent.

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID             int       `bun:"id,pk,autoincrement"`
	FirstName      string    `bun:"first_name,notnull"`
	LastName       string    `bun:"last_name,notnull"`
	SecondLastName string    `bun:"second_last_name"`
	Email          string    `bun:"email,notnull,unique"`
	PasswordHash   string    `bun:"password_hash,notnull"`
	RoleID         int       `bun:"role_id,notnull"`
	Active         bool      `bun:"active,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	CreatedBy      int       `bun:"created_by"`
}

type clientRow struct {
	bun.BaseModel `bun:"table:clients"`

	ID                   int       `bun:"id,pk,autoincrement"`
	UserID               int       `bun:"user_id,notnull,unique"`
	IdentificationNumber int64     `bun:"identification_number,notnull"`
	Phone                string    `bun:"phone,notnull"`
	Street               string    `bun:"street"`
	PostalCode           string    `bun:"postal_code"`
	Deleted              bool      `bun:"deleted,notnull"`
	CreatedAt            time.Time `bun:"created_at,notnull"`
	UpdatedAt            time.Time `bun:"updated_at"`
	UpdatedBy            int       `bun:"updated_by"`
}

type policyRow struct {
	bun.BaseModel `bun:"table:policies"`

	ID             int       `bun:"id,pk,autoincrement"`
	ClientID       int       `bun:"client_id,notnull"`
	PolicyTypeID   int       `bun:"policy_type_id,notnull"`
	PolicyStatusID int       `bun:"policy_status_id,notnull"`
	StartDate      time.Time `bun:"start_date,notnull"`
	EndDate        time.Time `bun:"end_date,notnull"`
	InsuredAmount  float64   `bun:"insured_amount,notnull"`
	Deleted        bool      `bun:"deleted,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	CreatedBy      int       `bun:"created_by"`
	UpdatedAt      time.Time `bun:"updated_at"`
	UpdatedBy      int       `bun:"updated_by"`
}

type stateRow struct {
	bun.BaseModel `bun:"table:states"`

	Code string `bun:"code,pk"`
	Name string `bun:"name,notnull"`
}

type policyTypeRow struct {
	bun.BaseModel `bun:"table:policy_types"`

	ID   int    `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type policyStatusRow struct {
	bun.BaseModel `bun:"table:policy_statuses"`

	ID   int    `bun:"id,pk"`
	Name string `bun:"name,notnull"`
}

type logRow struct {
	bun.BaseModel `bun:"table:logs"`

	ID        string    `bun:"id,pk"`
	UserID    int       `bun:"user_id"`
	Module    string    `bun:"module,notnull"`
	Action    string    `bun:"action,notnull"`
	Message   string    `bun:"message,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
