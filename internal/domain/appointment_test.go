package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citaplan/scheduling-service/pkg/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusAnnulled, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCompleted, StatusAnnulled, true},
		{StatusCompleted, StatusConfirmed, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, true},
		{StatusCancelled, StatusCompleted, false},
		{StatusAnnulled, StatusConfirmed, true},
		{StatusAnnulled, StatusCompleted, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidPaymentType(t *testing.T) {
	assert.True(t, ValidPaymentType(PaymentCard))
	assert.True(t, ValidPaymentType(PaymentCash))
	assert.True(t, ValidPaymentType(PaymentBizum))
	assert.True(t, ValidPaymentType(PaymentOther))
	assert.False(t, ValidPaymentType("cheque"))
	assert.False(t, ValidPaymentType(""))
}

func TestAppointmentOverlaps(t *testing.T) {
	appt := &Appointment{StartTime: "10:00", EndTime: "11:00"}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical span", "10:00", "11:00", true},
		{"contained", "10:15", "10:45", true},
		{"straddles start", "09:30", "10:30", true},
		{"straddles end", "10:30", "11:30", true},
		{"touching before", "09:00", "10:00", false},
		{"touching after", "11:00", "12:00", false},
		{"disjoint", "12:00", "13:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appt.Overlaps(
				types.TimeString(tt.start),
				types.TimeString(tt.end),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}
