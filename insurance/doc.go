// Package insurance holds the domain model of the back office: clients,
// policies, catalog rows, the policy lifecycle state machine and the shared
// domain error taxonomy. It has no dependencies on storage or caching; the
// repository layer composes it with those concerns.
package insurance
