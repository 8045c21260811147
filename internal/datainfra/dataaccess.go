package datainfra

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// roleClient is the role id assigned to users created through client
// registration.
const roleClient = 2

// DataAccess is the bun-backed source of truth. It satisfies the repository
// data ports (ClientData, PolicyData, CatalogData, UserData) and returns
// domain errors: not-found and conflict outcomes carry their kind, anything
// the database itself fails at comes back as an internal error.
type DataAccess struct {
	db    *bun.DB
	clock cache.Clock
}

// NewDataAccess wires the data layer. A nil clock uses the system clock.
func NewDataAccess(db *bun.DB, clock cache.Clock) *DataAccess {
	if clock == nil {
		clock = cache.SystemClock()
	}
	return &DataAccess{db: db, clock: clock}
}

// clientView is the scratch row for the clients+users join.
type clientView struct {
	ID                   int    `bun:"id"`
	UserID               int    `bun:"user_id"`
	IdentificationNumber int64  `bun:"identification_number"`
	FirstName            string `bun:"first_name"`
	LastName             string `bun:"last_name"`
	SecondLastName       string `bun:"second_last_name"`
	Email                string `bun:"email"`
	Phone                string `bun:"phone"`
	Street               string `bun:"street"`
	PostalCode           string `bun:"postal_code"`
	Deleted              bool   `bun:"deleted"`
}

func (v clientView) toDomain() insurance.Client {
	return insurance.Client{
		ClientID:             v.ID,
		UserID:               v.UserID,
		IdentificationNumber: v.IdentificationNumber,
		FullName:             fullName(v.FirstName, v.LastName, v.SecondLastName),
		Email:                v.Email,
		Phone:                v.Phone,
		Street:               v.Street,
		PostalCode:           v.PostalCode,
		Deleted:              v.Deleted,
	}
}

func fullName(first, last, secondLast string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, last, secondLast} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (d *DataAccess) clientSelect() *bun.SelectQuery {
	return d.db.NewSelect().
		TableExpr("clients AS c").
		ColumnExpr("c.id, c.user_id, c.identification_number, c.phone, c.street, c.postal_code, c.deleted").
		ColumnExpr("u.first_name, u.last_name, u.second_last_name, u.email").
		Join("JOIN users AS u ON u.id = c.user_id").
		Where("c.deleted = ?", false)
}

// ListClients implements repository.ClientData.
func (d *DataAccess) ListClients(ctx context.Context, filter insurance.ClientFilter, _ int) ([]insurance.Client, error) {
	q := d.clientSelect().OrderExpr("c.id")

	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where(
			"lower(u.first_name || ' ' || u.last_name || ' ' || u.second_last_name) LIKE ?",
			"%"+strings.ToLower(name)+"%",
		)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		q = q.Where("lower(u.email) LIKE ?", "%"+strings.ToLower(email)+"%")
	}
	if ident := strings.TrimSpace(filter.IdentificationNumber); ident != "" {
		n, err := strconv.ParseInt(ident, 10, 64)
		if err != nil {
			return nil, insurance.Validation("identification number must be numeric")
		}
		q = q.Where("c.identification_number = ?", n)
	}

	var views []clientView
	if err := q.Scan(ctx, &views); err != nil {
		return nil, insurance.Internal("listing clients", err)
	}
	out := make([]insurance.Client, len(views))
	for i, v := range views {
		out[i] = v.toDomain()
	}
	return out, nil
}

// ClientByUserID implements repository.ClientData. A missing or deleted
// client returns nil with no error.
func (d *DataAccess) ClientByUserID(ctx context.Context, userID int) (*insurance.Client, error) {
	var views []clientView
	err := d.clientSelect().Where("c.user_id = ?", userID).Limit(1).Scan(ctx, &views)
	if err != nil {
		return nil, insurance.Internal("loading client profile", err)
	}
	if len(views) == 0 {
		return nil, nil
	}
	c := views[0].toDomain()
	return &c, nil
}

// CreateClient implements repository.ClientData. The owning user and the
// client row are inserted in one transaction; the identification number is a
// generated 10-digit folio.
func (d *DataAccess) CreateClient(ctx context.Context, nc insurance.NewClient, actorID int) (int, error) {
	now := stampIn(d.clock)
	var clientID int

	err := d.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := d.emailTaken(ctx, tx, nc.Email)
		if err != nil {
			return insurance.Internal("checking email uniqueness", err)
		}
		if taken {
			return insurance.Conflict("a user with this email already exists")
		}

		user := &userRow{
			FirstName:      nc.FirstName,
			LastName:       nc.LastName,
			SecondLastName: nc.SecondLastName,
			Email:          nc.Email,
			PasswordHash:   nc.Password,
			RoleID:         roleClient,
			Active:         true,
			CreatedAt:      now,
			CreatedBy:      actorID,
		}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return insurance.Internal("inserting user", err)
		}

		client := &clientRow{
			UserID:               user.ID,
			IdentificationNumber: newIdentificationNumber(),
			Phone:                nc.Phone,
			Street:               nc.Street,
			PostalCode:           nc.PostalCode,
			CreatedAt:            now,
		}
		if _, err := tx.NewInsert().Model(client).Exec(ctx); err != nil {
			return insurance.Internal("inserting client", err)
		}
		clientID = client.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return clientID, nil
}

// UpdateProfile implements repository.ClientData.
func (d *DataAccess) UpdateProfile(ctx context.Context, up insurance.ProfileUpdate, userID int) error {
	res, err := d.db.NewUpdate().
		Model((*clientRow)(nil)).
		Set("phone = ?", up.Phone).
		Set("street = ?", up.Street).
		Set("postal_code = ?", up.PostalCode).
		Set("updated_at = ?", stampIn(d.clock)).
		Set("updated_by = ?", userID).
		Where("user_id = ?", userID).
		Where("deleted = ?", false).
		Exec(ctx)
	if err != nil {
		return insurance.Internal("updating client profile", err)
	}
	return requireRows(res, "client profile not found")
}

// UpdateClient implements repository.ClientData. Name fields live on the user
// row, contact fields on the client row; a blank password leaves the
// credential untouched.
func (d *DataAccess) UpdateClient(ctx context.Context, uc insurance.ClientUpdate, actorID int) error {
	return d.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		userID, err := d.userIDByClientIDTx(ctx, tx, uc.ClientID)
		if err != nil {
			return err
		}
		if userID == 0 {
			return insurance.NotFound("client not found")
		}

		uq := tx.NewUpdate().
			Model((*userRow)(nil)).
			Set("first_name = ?", uc.FirstName).
			Set("last_name = ?", uc.LastName).
			Set("second_last_name = ?", uc.SecondLastName).
			Where("id = ?", userID)
		if uc.Password != "" {
			uq = uq.Set("password_hash = ?", uc.Password)
		}
		if _, err := uq.Exec(ctx); err != nil {
			return insurance.Internal("updating user", err)
		}

		_, err = tx.NewUpdate().
			Model((*clientRow)(nil)).
			Set("phone = ?", uc.Phone).
			Set("street = ?", uc.Street).
			Set("postal_code = ?", uc.PostalCode).
			Set("updated_at = ?", stampIn(d.clock)).
			Set("updated_by = ?", actorID).
			Where("id = ?", uc.ClientID).
			Exec(ctx)
		if err != nil {
			return insurance.Internal("updating client", err)
		}
		return nil
	})
}

// SoftDeleteClient implements repository.ClientData. Deletion is refused
// while the client still holds policies in Active or CancelRequested status;
// soft-deleted policy rows do not count.
func (d *DataAccess) SoftDeleteClient(ctx context.Context, clientID, actorID int) error {
	open, err := d.db.NewSelect().
		Model((*policyRow)(nil)).
		Where("client_id = ?", clientID).
		Where("deleted = ?", false).
		Where("policy_status_id IN (?)", bun.In([]int{
			int(insurance.StatusActive),
			int(insurance.StatusCancelRequested),
		})).
		Count(ctx)
	if err != nil {
		return insurance.Internal("counting open policies", err)
	}
	if open > 0 {
		return insurance.Conflict("client still has active or cancel-requested policies")
	}

	res, err := d.db.NewUpdate().
		Model((*clientRow)(nil)).
		Set("deleted = ?", true).
		Set("updated_at = ?", stampIn(d.clock)).
		Set("updated_by = ?", actorID).
		Where("id = ?", clientID).
		Where("deleted = ?", false).
		Exec(ctx)
	if err != nil {
		return insurance.Internal("deleting client", err)
	}
	return requireRows(res, "client not found")
}

// policyView is the scratch row for the policies join against its client,
// type and status catalogs.
type policyView struct {
	ID             int     `bun:"id"`
	ClientID       int     `bun:"client_id"`
	PolicyTypeID   int     `bun:"policy_type_id"`
	PolicyStatusID int     `bun:"policy_status_id"`
	FirstName      string  `bun:"first_name"`
	LastName       string  `bun:"last_name"`
	SecondLastName string  `bun:"second_last_name"`
	TypeName       string  `bun:"type_name"`
	StatusName     string  `bun:"status_name"`
	StartDate      time.Time `bun:"start_date"`
	EndDate        time.Time `bun:"end_date"`
	InsuredAmount  float64   `bun:"insured_amount"`
	Deleted        bool      `bun:"deleted"`
}

func (v policyView) toDomain() insurance.Policy {
	return insurance.Policy{
		PolicyID:      v.ID,
		ClientID:      v.ClientID,
		PolicyTypeID:  v.PolicyTypeID,
		Status:        insurance.PolicyStatus(v.PolicyStatusID),
		HolderName:    fullName(v.FirstName, v.LastName, v.SecondLastName),
		TypeName:      v.TypeName,
		StatusName:    v.StatusName,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		InsuredAmount: v.InsuredAmount,
		Deleted:       v.Deleted,
	}
}

func (d *DataAccess) policySelect() *bun.SelectQuery {
	return d.db.NewSelect().
		TableExpr("policies AS p").
		ColumnExpr("p.id, p.client_id, p.policy_type_id, p.policy_status_id").
		ColumnExpr("p.start_date, p.end_date, p.insured_amount, p.deleted").
		ColumnExpr("u.first_name, u.last_name, u.second_last_name").
		ColumnExpr("t.name AS type_name, s.name AS status_name").
		Join("JOIN clients AS c ON c.id = p.client_id").
		Join("JOIN users AS u ON u.id = c.user_id").
		Join("JOIN policy_types AS t ON t.id = p.policy_type_id").
		Join("JOIN policy_statuses AS s ON s.id = p.policy_status_id").
		Where("p.deleted = ?", false)
}

// ListPolicies implements repository.PolicyData.
func (d *DataAccess) ListPolicies(ctx context.Context, filter insurance.PolicyFilter, _ int) ([]insurance.Policy, error) {
	q := d.policySelect().OrderExpr("p.id")

	if filter.StartDate != nil {
		q = q.Where("p.start_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("p.end_date <= ?", *filter.EndDate)
	}
	if filter.PolicyTypeID != nil {
		q = q.Where("p.policy_type_id = ?", *filter.PolicyTypeID)
	}
	if filter.PolicyStatusID != nil {
		q = q.Where("p.policy_status_id = ?", *filter.PolicyStatusID)
	}

	return d.scanPolicies(ctx, q)
}

// PoliciesByClient implements repository.PolicyData.
func (d *DataAccess) PoliciesByClient(ctx context.Context, clientID int, activeOnly bool) ([]insurance.Policy, error) {
	q := d.policySelect().Where("p.client_id = ?", clientID).OrderExpr("p.id")
	if activeOnly {
		q = q.Where("p.policy_status_id = ?", int(insurance.StatusActive))
	}
	return d.scanPolicies(ctx, q)
}

// PoliciesByUser implements repository.PolicyData.
func (d *DataAccess) PoliciesByUser(ctx context.Context, userID int) ([]insurance.Policy, error) {
	q := d.policySelect().Where("c.user_id = ?", userID).OrderExpr("p.id")
	return d.scanPolicies(ctx, q)
}

func (d *DataAccess) scanPolicies(ctx context.Context, q *bun.SelectQuery) ([]insurance.Policy, error) {
	var views []policyView
	if err := q.Scan(ctx, &views); err != nil {
		return nil, insurance.Internal("listing policies", err)
	}
	out := make([]insurance.Policy, len(views))
	for i, v := range views {
		out[i] = v.toDomain()
	}
	return out, nil
}

// PolicyByID implements repository.PolicyData. A missing or deleted policy
// returns nil with no error.
func (d *DataAccess) PolicyByID(ctx context.Context, policyID int) (*insurance.Policy, error) {
	var views []policyView
	err := d.policySelect().Where("p.id = ?", policyID).Limit(1).Scan(ctx, &views)
	if err != nil {
		return nil, insurance.Internal("loading policy", err)
	}
	if len(views) == 0 {
		return nil, nil
	}
	p := views[0].toDomain()
	return &p, nil
}

// CreatePolicy implements repository.PolicyData. New policies always start in
// Active status; the inserted row is read back through the join so the caller
// gets the enriched names.
func (d *DataAccess) CreatePolicy(ctx context.Context, np insurance.NewPolicy, actorID int) (*insurance.Policy, error) {
	clientOK, err := d.db.NewSelect().
		Model((*clientRow)(nil)).
		Where("id = ?", np.ClientID).
		Where("deleted = ?", false).
		Exists(ctx)
	if err != nil {
		return nil, insurance.Internal("checking client", err)
	}
	if !clientOK {
		return nil, insurance.NotFound("client not found")
	}

	typeOK, err := d.db.NewSelect().
		Model((*policyTypeRow)(nil)).
		Where("id = ?", np.PolicyTypeID).
		Exists(ctx)
	if err != nil {
		return nil, insurance.Internal("checking policy type", err)
	}
	if !typeOK {
		return nil, insurance.NotFound("policy type not found")
	}

	row := &policyRow{
		ClientID:       np.ClientID,
		PolicyTypeID:   np.PolicyTypeID,
		PolicyStatusID: int(insurance.StatusActive),
		StartDate:      np.StartDate,
		EndDate:        np.EndDate,
		InsuredAmount:  np.InsuredAmount,
		CreatedAt:      stampIn(d.clock),
		CreatedBy:      actorID,
	}
	if _, err := d.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, insurance.Internal("inserting policy", err)
	}
	return d.PolicyByID(ctx, row.ID)
}

// SetPolicyStatus implements repository.PolicyData. The transition itself is
// validated by the lifecycle state machine before this runs.
func (d *DataAccess) SetPolicyStatus(ctx context.Context, policyID int, status insurance.PolicyStatus, actorID int) error {
	if !status.Valid() {
		return insurance.Validation("unknown policy status")
	}
	res, err := d.db.NewUpdate().
		Model((*policyRow)(nil)).
		Set("policy_status_id = ?", int(status)).
		Set("updated_at = ?", stampIn(d.clock)).
		Set("updated_by = ?", actorID).
		Where("id = ?", policyID).
		Where("deleted = ?", false).
		Exec(ctx)
	if err != nil {
		return insurance.Internal("updating policy status", err)
	}
	return requireRows(res, "policy not found")
}

// UserIDByClientID implements repository.Resolver.
func (d *DataAccess) UserIDByClientID(ctx context.Context, clientID int) (int, error) {
	return d.scalarID(ctx, d.db.NewSelect().
		Model((*clientRow)(nil)).
		Column("user_id").
		Where("id = ?", clientID))
}

// ClientIDByUserID implements repository.Resolver.
func (d *DataAccess) ClientIDByUserID(ctx context.Context, userID int) (int, error) {
	return d.scalarID(ctx, d.db.NewSelect().
		Model((*clientRow)(nil)).
		Column("id").
		Where("user_id = ?", userID).
		Where("deleted = ?", false))
}

// ClientIDByPolicyID implements repository.Resolver.
func (d *DataAccess) ClientIDByPolicyID(ctx context.Context, policyID int) (int, error) {
	return d.scalarID(ctx, d.db.NewSelect().
		Model((*policyRow)(nil)).
		Column("client_id").
		Where("id = ?", policyID))
}

// scalarID runs a single-column id query. Absence maps to a zero id with no
// error, matching the Resolver contract.
func (d *DataAccess) scalarID(ctx context.Context, q *bun.SelectQuery) (int, error) {
	var ids []int
	if err := q.Limit(1).Scan(ctx, &ids); err != nil {
		return 0, insurance.Internal("resolving id", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (d *DataAccess) userIDByClientIDTx(ctx context.Context, tx bun.Tx, clientID int) (int, error) {
	var ids []int
	err := tx.NewSelect().
		Model((*clientRow)(nil)).
		Column("user_id").
		Where("id = ?", clientID).
		Where("deleted = ?", false).
		Limit(1).
		Scan(ctx, &ids)
	if err != nil {
		return 0, insurance.Internal("resolving client owner", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// States implements repository.CatalogData.
func (d *DataAccess) States(ctx context.Context) ([]insurance.State, error) {
	var rows []stateRow
	if err := d.db.NewSelect().Model(&rows).OrderExpr("code").Scan(ctx); err != nil {
		return nil, insurance.Internal("listing states", err)
	}
	out := make([]insurance.State, len(rows))
	for i, r := range rows {
		out[i] = insurance.State{Code: r.Code, Name: r.Name}
	}
	return out, nil
}

// PolicyTypes implements repository.CatalogData.
func (d *DataAccess) PolicyTypes(ctx context.Context) ([]insurance.PolicyType, error) {
	var rows []policyTypeRow
	if err := d.db.NewSelect().Model(&rows).OrderExpr("id").Scan(ctx); err != nil {
		return nil, insurance.Internal("listing policy types", err)
	}
	out := make([]insurance.PolicyType, len(rows))
	for i, r := range rows {
		out[i] = insurance.PolicyType{PolicyTypeID: r.ID, Name: r.Name}
	}
	return out, nil
}

// PolicyStatuses implements repository.CatalogData.
func (d *DataAccess) PolicyStatuses(ctx context.Context) ([]insurance.StatusDescriptor, error) {
	var rows []policyStatusRow
	if err := d.db.NewSelect().Model(&rows).OrderExpr("id").Scan(ctx); err != nil {
		return nil, insurance.Internal("listing policy statuses", err)
	}
	out := make([]insurance.StatusDescriptor, len(rows))
	for i, r := range rows {
		out[i] = insurance.StatusDescriptor{ID: insurance.PolicyStatus(r.ID), Name: r.Name}
	}
	return out, nil
}

// CreateUser implements repository.UserData.
func (d *DataAccess) CreateUser(ctx context.Context, nu insurance.NewUser, actorID int) (int, error) {
	var userID int
	err := d.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := d.emailTaken(ctx, tx, nu.Email)
		if err != nil {
			return insurance.Internal("checking email uniqueness", err)
		}
		if taken {
			return insurance.Conflict("a user with this email already exists")
		}

		user := &userRow{
			FirstName:      nu.FirstName,
			LastName:       nu.LastName,
			SecondLastName: nu.SecondLastName,
			Email:          nu.Email,
			PasswordHash:   nu.Password,
			RoleID:         nu.RoleID,
			Active:         true,
			CreatedAt:      stampIn(d.clock),
			CreatedBy:      actorID,
		}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return insurance.Internal("inserting user", err)
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (d *DataAccess) emailTaken(ctx context.Context, tx bun.Tx, email string) (bool, error) {
	return tx.NewSelect().
		Model((*userRow)(nil)).
		Where("lower(email) = ?", strings.ToLower(email)).
		Exists(ctx)
}

func requireRows(res sql.Result, missing string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return insurance.Internal("reading affected rows", err)
	}
	if n == 0 {
		return insurance.NotFound(missing)
	}
	return nil
}

// newIdentificationNumber generates the 10-digit client folio.
func newIdentificationNumber() int64 {
	return 1_000_000_000 + rand.Int64N(9_000_000_000)
}
