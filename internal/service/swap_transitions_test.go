package service

import (
	"errors"
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	requesterID uint = 1
	providerID  uint = 2
	strangerID  uint = 3
)

func TestResolveTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   models.SwapStatus
		actor     uint
		requested models.SwapStatus
		wantCode  string
	}{
		{"requester cancels pending", models.SwapStatusPending, requesterID, models.SwapStatusCancelled, ""},
		{"provider accepts pending", models.SwapStatusPending, providerID, models.SwapStatusAccepted, ""},
		{"provider rejects pending", models.SwapStatusPending, providerID, models.SwapStatusRejected, ""},
		{"requester cannot accept", models.SwapStatusPending, requesterID, models.SwapStatusAccepted, models.CodeForbidden},
		{"requester cannot reject", models.SwapStatusPending, requesterID, models.SwapStatusRejected, models.CodeForbidden},
		{"provider cannot cancel", models.SwapStatusPending, providerID, models.SwapStatusCancelled, models.CodeForbidden},
		{"pending cannot jump to completed", models.SwapStatusPending, providerID, models.SwapStatusCompleted, models.CodeForbidden},
		{"pending to pending is not a transition", models.SwapStatusPending, requesterID, models.SwapStatusPending, models.CodeForbidden},
		{"stranger on pending", models.SwapStatusPending, strangerID, models.SwapStatusCancelled, models.CodeForbidden},
		{"requester completes accepted", models.SwapStatusAccepted, requesterID, models.SwapStatusCompleted, ""},
		{"provider completes accepted", models.SwapStatusAccepted, providerID, models.SwapStatusCompleted, ""},
		{"accepted cannot be cancelled", models.SwapStatusAccepted, requesterID, models.SwapStatusCancelled, models.CodeForbidden},
		{"accepted cannot be rejected", models.SwapStatusAccepted, providerID, models.SwapStatusRejected, models.CodeForbidden},
		{"stranger on accepted", models.SwapStatusAccepted, strangerID, models.SwapStatusCompleted, models.CodeForbidden},
		{"completed is terminal", models.SwapStatusCompleted, requesterID, models.SwapStatusCancelled, models.CodeInvalidTransition},
		{"rejected is terminal", models.SwapStatusRejected, providerID, models.SwapStatusAccepted, models.CodeInvalidTransition},
		{"cancelled is terminal", models.SwapStatusCancelled, requesterID, models.SwapStatusCancelled, models.CodeInvalidTransition},
		{"terminal applies to strangers too", models.SwapStatusCompleted, strangerID, models.SwapStatusCompleted, models.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swap := &models.Swap{RequesterID: requesterID, ProviderID: providerID, Status: tt.current}
			err := ResolveTransition(swap, tt.actor, tt.requested)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestResolveTransition_InvalidTransitionCarriesStatuses(t *testing.T) {
	swap := &models.Swap{RequesterID: requesterID, ProviderID: providerID, Status: models.SwapStatusCompleted}
	err := ResolveTransition(swap, providerID, models.SwapStatusRejected)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "current=completed attempted=rejected", appErr.Details)
}
