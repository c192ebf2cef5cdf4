package deepseek

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

func TestSignals(t *testing.T) {
	tests := []struct {
		msg  string
		want model.Outcome
	}{
		{"error, status code: 402, status: 402 Payment Required, message: Insufficient Balance", model.OutcomeBillingRequired},
		{"error, status code: 429, message: Rate limit reached", model.OutcomeQuotaExceeded},
		{"error, status code: 401, message: Authentication Fails (no such user)", model.OutcomeInvalidCredential},
		{"error, status code: 500, message: server error", model.OutcomeUnknownFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Signals.Classify(errors.New(tt.msg)), tt.msg)
	}
}
