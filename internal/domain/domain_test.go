package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorTableLastDescriptionWinsAndKeepsFirstPosition(t *testing.T) {
	t.Parallel()

	table := NewVendorTable()
	table.Set("123", "desc")
	table.Set("456", "desc2")
	table.Set("123", "replaced")

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"123", "456"}, table.VendorIDs())

	description, ok := table.Description("123")
	require.True(t, ok)
	assert.Equal(t, "replaced", description)

	assert.Equal(t, []VendorHoldRequest{
		{VendorID: "123", Description: "replaced"},
		{VendorID: "456", Description: "desc2"},
	}, table.Requests())
}

func TestVendorTableVendorIDsReturnsCopy(t *testing.T) {
	t.Parallel()

	table := NewVendorTable()
	table.Set("1", "a")

	ids := table.VendorIDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"1"}, table.VendorIDs())
}

func TestVendorTableZeroValueAndNil(t *testing.T) {
	t.Parallel()

	var zero VendorTable
	zero.Set("1", "a")
	assert.Equal(t, 1, zero.Len())

	var missing *VendorTable
	assert.Equal(t, 0, missing.Len())
	assert.Empty(t, missing.VendorIDs())
	assert.Empty(t, missing.Requests())
	_, ok := missing.Description("1")
	assert.False(t, ok)
}

func TestActiveHoldIndex(t *testing.T) {
	t.Parallel()

	index := NewActiveHoldIndex([]ActiveHold{
		{VendorID: "84", HoldID: "1031"},
		{VendorID: "456", HoldID: "7"},
	})

	holdID, ok := index.HoldID("84")
	require.True(t, ok)
	assert.Equal(t, "1031", holdID)

	_, ok = index.HoldID("123")
	assert.False(t, ok)
}

func TestNewRunContext(t *testing.T) {
	t.Parallel()

	run, err := NewRunContext("12345.11", "123", "bulk_payment_holds/template.csv")
	require.NoError(t, err)
	assert.Equal(t, "oa:123", run.ActorID())
	assert.Equal(t, "bulk_payment_holds/template.csv", run.SourceFile)

	_, err = NewRunContext("  ", "123", "file.csv")
	assert.ErrorContains(t, err, "correlation id is required")
}

func TestHoldOutcomeSucceeded(t *testing.T) {
	t.Parallel()

	assert.True(t, HoldOutcome{VendorID: "1", Result: OutcomeSuccess}.Succeeded())
	assert.False(t, HoldOutcome{VendorID: "1", Result: `{"error":"bad vendor"}`}.Succeeded())
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "invalid event", err: &InvalidEventError{Field: "Records", Message: "missing"}, want: true},
		{name: "missing creator", err: &MissingCreatorIDError{Bucket: "b", Key: "k"}, want: true},
		{name: "wrapped parse error", err: fmt.Errorf("load: %w", &TableParseError{Line: 3, Message: "short row"}), want: true},
		{name: "active holds query", err: &ActiveHoldsQueryError{StatusCode: 500, Body: "boom"}, want: true},
		{name: "publish failure", err: errors.New("publish notification: throttled"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminal(tt.err))
		})
	}
}

func TestActiveHoldsQueryErrorMessages(t *testing.T) {
	t.Parallel()

	withBody := &ActiveHoldsQueryError{StatusCode: 503, Body: "unavailable"}
	assert.Equal(t, "failed to get active holds for vendor (status 503): unavailable", withBody.Error())

	cause := errors.New("dial tcp: refused")
	withCause := &ActiveHoldsQueryError{Err: cause}
	assert.ErrorIs(t, withCause, cause)
	assert.ErrorIs(t, withCause, ErrActiveHoldsQuery)
	assert.Contains(t, withCause.Error(), "dial tcp: refused")
}
