package insurance

import "time"

// PolicyStatus is the lifecycle state of a policy. The numeric values are the
// catalog ids persisted by the data layer.
type PolicyStatus int

const (
	// StatusActive is the initial state assigned at creation.
	StatusActive PolicyStatus = 1
	// StatusCancelled is terminal: no transition leaves it.
	StatusCancelled PolicyStatus = 2
	// StatusCancelRequested marks a client-initiated cancellation awaiting
	// back-office approval.
	StatusCancelRequested PolicyStatus = 3
)

// Valid reports whether s is one of the three known statuses.
func (s PolicyStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusCancelRequested:
		return true
	}
	return false
}

func (s PolicyStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCancelled:
		return "cancelled"
	case StatusCancelRequested:
		return "cancel_requested"
	}
	return "unknown"
}

// Policy is an insurance policy owned by a client. Deleted is the soft-delete
// flag; it is independent from the lifecycle status and never touched by the
// state machine.
type Policy struct {
	PolicyID      int          `msgpack:"policy_id" json:"policyId"`
	ClientID      int          `msgpack:"client_id" json:"clientId"`
	PolicyTypeID  int          `msgpack:"policy_type_id" json:"policyTypeId"`
	Status        PolicyStatus `msgpack:"status" json:"policyStatusId"`
	HolderName    string       `msgpack:"holder_name" json:"fullName"`
	TypeName      string       `msgpack:"type_name" json:"policyName"`
	StatusName    string       `msgpack:"status_name" json:"statusName"`
	StartDate     time.Time    `msgpack:"start_date" json:"startDate"`
	EndDate       time.Time    `msgpack:"end_date" json:"endDate"`
	InsuredAmount float64      `msgpack:"insured_amount" json:"insuredAmount"`
	Deleted       bool         `msgpack:"deleted" json:"-"`
}

// Client is a back-office client, 1:1 with the user that owns the
// "my policies" view.
type Client struct {
	ClientID             int    `msgpack:"client_id" json:"clientId"`
	UserID               int    `msgpack:"user_id" json:"-"`
	IdentificationNumber int64  `msgpack:"identification_number" json:"identificationNumber"`
	FullName             string `msgpack:"full_name" json:"fullName"`
	Email                string `msgpack:"email" json:"email"`
	Phone                string `msgpack:"phone" json:"phoneNumber"`
	Street               string `msgpack:"street" json:"street"`
	PostalCode           string `msgpack:"postal_code" json:"postalCode"`
	Deleted              bool   `msgpack:"deleted" json:"-"`
}

// User is the account a client authenticates as. Credential handling stays
// with the excluded auth layer; only identity fields live here.
type User struct {
	UserID    int    `msgpack:"user_id" json:"userId"`
	FirstName string `msgpack:"first_name" json:"firstName"`
	LastName  string `msgpack:"last_name" json:"lastName"`
	Email     string `msgpack:"email" json:"email"`
	RoleID    int    `msgpack:"role_id" json:"roleId"`
}

// State is a catalog row for address states.
type State struct {
	Code string `msgpack:"code" json:"code"`
	Name string `msgpack:"name" json:"name"`
}

// PolicyType is a catalog row for policy products.
type PolicyType struct {
	PolicyTypeID int    `msgpack:"policy_type_id" json:"policyTypeId"`
	Name         string `msgpack:"name" json:"name"`
}

// StatusDescriptor is a catalog row describing a lifecycle status.
type StatusDescriptor struct {
	ID   PolicyStatus `msgpack:"id" json:"policyStatusId"`
	Name string       `msgpack:"name" json:"name"`
}

// ClientFilter is the filter set for client list queries. Zero values mean
// "not filtered"; normalization (trim, case-fold) happens when the filter is
// fingerprinted into a cache key and again in the data layer's predicates.
type ClientFilter struct {
	Name                 string
	Email                string
	IdentificationNumber string
}

// PolicyFilter is the filter set for policy list queries. Nil pointers mean
// "not filtered".
type PolicyFilter struct {
	StartDate      *time.Time
	EndDate        *time.Time
	PolicyTypeID   *int
	PolicyStatusID *int
}

// NewClient is the input for client creation. The data layer creates the
// owning user, the client row and its address in one transaction.
type NewClient struct {
	FirstName      string
	LastName       string
	SecondLastName string
	Email          string
	Phone          string
	Password       string
	Street         string
	PostalCode     string
}

// ProfileUpdate is the self-service subset of client fields.
type ProfileUpdate struct {
	Phone      string
	Street     string
	PostalCode string
}

// ClientUpdate is the admin-side update. Password is optional; blank leaves
// the credential untouched.
type ClientUpdate struct {
	ClientID       int
	FirstName      string
	LastName       string
	SecondLastName string
	Phone          string
	Password       string
	Street         string
	PostalCode     string
}

// NewPolicy is the input for policy creation. Policies are always created in
// StatusActive.
type NewPolicy struct {
	ClientID      int
	PolicyTypeID  int
	StartDate     time.Time
	EndDate       time.Time
	InsuredAmount float64
}

// NewUser is the input for back-office user creation.
type NewUser struct {
	FirstName      string
	LastName       string
	SecondLastName string
	Email          string
	Password       string
	RoleID         int
}
