package repository

import (
	"strconv"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// Collections with filtered-list caches. Each one owns a version counter.
const (
	CollectionClients  = "clients"
	CollectionPolicies = "policies"
)

// Catalog entries keep the legacy fixed keys; catalogs are static, so they
// have no invalidation mapping and simply expire.
const (
	statesKey         = "states:all:status1"
	policyTypesKey    = "policytypes:all:status1"
	policyStatusesKey = "policystatus:all:status1"
)

// Directly-addressed keys. These sit outside the version namespace on
// purpose: a mutation invalidates them by exact removal, so they must be
// reconstructible from ids alone.

func profileKey(userID int) string {
	return "clients:profile:user:" + strconv.Itoa(userID)
}

func myPoliciesKey(userID int) string {
	return "policies:mine:user:" + strconv.Itoa(userID)
}

func byClientKey(clientID int) string {
	return "policies:client:" + strconv.Itoa(clientID)
}

func byClientActiveKey(clientID int) string {
	return "policies:client:" + strconv.Itoa(clientID) + ":active"
}

// clientFilterFields fingerprints a client filter. Order is fixed; free-text
// fields fold lower, the identification number folds upper like the
// identifier it is.
func clientFilterFields(f insurance.ClientFilter) []cache.FilterField {
	return []cache.FilterField{
		{Name: "name", Value: f.Name, Fold: cache.FoldLower},
		{Name: "email", Value: f.Email, Fold: cache.FoldLower},
		{Name: "identification", Value: f.IdentificationNumber, Fold: cache.FoldUpper},
	}
}

// policyFilterFields fingerprints a policy filter. Dates render as days, the
// two ids as plain integers; nil pointers collapse to the null sentinel.
func policyFilterFields(f insurance.PolicyFilter) []cache.FilterField {
	return []cache.FilterField{
		{Name: "start", Value: f.StartDate, Fold: cache.FoldNone},
		{Name: "end", Value: f.EndDate, Fold: cache.FoldNone},
		{Name: "type", Value: f.PolicyTypeID, Fold: cache.FoldNone},
		{Name: "status", Value: f.PolicyStatusID, Fold: cache.FoldNone},
	}
}
