package model_test

import (
	"testing"

	"rentwheels/internal/domains/payment/model"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   model.Status
		to     model.Status
		wantOK bool
	}{
		{name: "pending to completed", from: model.StatusPending, to: model.StatusCompleted, wantOK: true},
		{name: "pending to failed", from: model.StatusPending, to: model.StatusFailed, wantOK: true},
		{name: "pending to refunded skips settlement", from: model.StatusPending, to: model.StatusRefunded, wantOK: false},
		{name: "completed to refunded", from: model.StatusCompleted, to: model.StatusRefunded, wantOK: true},
		{name: "completed back to pending", from: model.StatusCompleted, to: model.StatusPending, wantOK: false},
		{name: "failed is terminal", from: model.StatusFailed, to: model.StatusPending, wantOK: false},
		{name: "refunded is terminal", from: model.StatusRefunded, to: model.StatusCompleted, wantOK: false},
		{name: "unknown source has no moves", from: model.Status("voided"), to: model.StatusCompleted, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusFailed.IsTerminal())
	assert.True(t, model.StatusRefunded.IsTerminal())
}

func TestStatus_Badge(t *testing.T) {
	tests := []struct {
		name      string
		status    model.Status
		wantColor string
		wantIcon  string
		wantLabel string
	}{
		{name: "pending", status: model.StatusPending, wantColor: "yellow", wantIcon: "clock", wantLabel: "Pending"},
		{name: "completed", status: model.StatusCompleted, wantColor: "green", wantIcon: "check", wantLabel: "Completed"},
		{name: "failed", status: model.StatusFailed, wantColor: "red", wantIcon: "x", wantLabel: "Failed"},
		{name: "refunded", status: model.StatusRefunded, wantColor: "purple", wantIcon: "refresh", wantLabel: "Refunded"},
		{name: "empty status treated as pending", status: model.Status(""), wantColor: "yellow", wantIcon: "clock", wantLabel: "Pending"},
		{name: "unknown status keeps raw value", status: model.Status("voided"), wantColor: "gray", wantIcon: "alert", wantLabel: "voided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := tt.status.Badge()

			assert.Equal(t, tt.wantColor, badge.Color)
			assert.Equal(t, tt.wantIcon, badge.Icon)
			assert.Equal(t, tt.wantLabel, badge.Label)
		})
	}
}
