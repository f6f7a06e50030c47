package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

func TestSubscriptionStatus_IsServeable(t *testing.T) {
	tests := []struct {
		name   string
		status models.SubscriptionStatus
		want   bool
	}{
		{name: "trial is serveable", status: models.StatusTrial, want: true},
		{name: "paid is serveable", status: models.StatusPaid, want: true},
		{name: "cancelled is serveable until end date", status: models.StatusCancelled, want: true},
		{name: "expired is not serveable", status: models.StatusExpired, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsServeable())
		})
	}
}
