package service

import "skillswap/internal/models"

// ResolveTransition decides whether actorID may move swap to requested.
//
//	pending  + requester -> cancelled
//	pending  + provider  -> accepted | rejected
//	accepted + either    -> completed
//
// Any request against a terminal status is INVALID_TRANSITION; every other
// combination from pending or accepted is FORBIDDEN.
func ResolveTransition(swap *models.Swap, actorID uint, requested models.SwapStatus) error {
	current := swap.Status
	if current.IsTerminal() {
		return models.NewInvalidTransitionError(current, requested)
	}

	isRequester := actorID == swap.RequesterID
	isProvider := actorID == swap.ProviderID

	switch current {
	case models.SwapStatusPending:
		switch {
		case isRequester && requested == models.SwapStatusCancelled:
			return nil
		case isProvider && (requested == models.SwapStatusAccepted || requested == models.SwapStatusRejected):
			return nil
		}
	case models.SwapStatusAccepted:
		if (isRequester || isProvider) && requested == models.SwapStatusCompleted {
			return nil
		}
	}

	return models.NewForbiddenError("You are not allowed to change this swap to " + string(requested))
}
