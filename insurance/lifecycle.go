package insurance

// The policy lifecycle has three states and two transitions:
//
//	Active --RequestCancel--> CancelRequested --ApproveCancel--> Cancelled
//
// Cancelled is terminal. Both transitions are pure: they take a policy value
// and return the updated value or a domain error, leaving persistence and
// cache invalidation to the caller.

// RequestCancel moves an Active policy to CancelRequested on behalf of the
// owning client. Ownership is checked before the state: a foreign actor gets
// an authorization error even when the transition would also be illegal.
func RequestCancel(p Policy, actorClientID int) (Policy, error) {
	if p.ClientID != actorClientID {
		return p, Unauthorized("policy does not belong to the requesting client")
	}
	switch p.Status {
	case StatusCancelled:
		return p, Conflict("policy is already cancelled")
	case StatusCancelRequested:
		return p, Conflict("cancellation already requested for this policy")
	case StatusActive:
		p.Status = StatusCancelRequested
		return p, nil
	default:
		return p, Conflict("only active policies may be cancel-requested")
	}
}

// ApproveCancel moves a CancelRequested policy to Cancelled. Any other
// current state is rejected; in particular there is no way back out of
// Cancelled.
func ApproveCancel(p Policy) (Policy, error) {
	switch p.Status {
	case StatusCancelled:
		return p, Conflict("policy is already cancelled")
	case StatusCancelRequested:
		p.Status = StatusCancelled
		return p, nil
	default:
		return p, Conflict("policy has no pending cancellation request")
	}
}
