package envelope_test

import (
	"rentwheels/shared/envelope"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

func TestNormalize_WellFormedEnvelopes(t *testing.T) {
	want := []record{
		{ID: "a", Amount: 100},
		{ID: "b", Amount: 200},
	}

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "bare array",
			raw:  `[{"id":"a","amount":100},{"id":"b","amount":200}]`,
		},
		{
			name: "data wrapper",
			raw:  `{"data":[{"id":"a","amount":100},{"id":"b","amount":200}]}`,
		},
		{
			name: "entity wrapper",
			raw:  `{"transactions":[{"id":"a","amount":100},{"id":"b","amount":200}]}`,
		},
		{
			name: "success wrapper",
			raw:  `{"success":true,"data":[{"id":"a","amount":100},{"id":"b","amount":200}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := envelope.Normalize[record]([]byte(tt.raw), "transactions")

			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_MalformedEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "null", raw: `null`},
		{name: "empty input", raw: ``},
		{name: "scalar", raw: `42`},
		{name: "string", raw: `"nope"`},
		{name: "object without collection", raw: `{"message":"ok"}`},
		{name: "entity key holds non-array", raw: `{"transactions":"oops"}`},
		{name: "null data", raw: `{"data":null}`},
		{name: "truncated json", raw: `{"data":[{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got := envelope.Normalize[record]([]byte(tt.raw), "transactions")

				assert.Empty(t, got)
				assert.NotNil(t, got)
			})
		})
	}
}

func TestNormalize_EntityKeyPreferredOverData(t *testing.T) {
	raw := `{"transactions":[{"id":"a","amount":1}],"data":[{"id":"b","amount":2}]}`

	got := envelope.Normalize[record]([]byte(raw), "transactions")

	assert.Equal(t, []record{{ID: "a", Amount: 1}}, got)
}
