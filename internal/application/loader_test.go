package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLoaderLoadSuccess(t *testing.T) {
	store := mocks.NewMockObjectStore(t)
	store.On("Metadata", mocks.AnyContext(), "dev-cucumbers", "holds.csv").Return(map[string]string{"creator_id": "123"}, nil)
	store.On("Get", mocks.AnyContext(), "dev-cucumbers", "holds.csv").Return([]byte("Vendor Id,Description\n"), nil)

	source, err := NewSourceLoader(store).Load(context.Background(), ObjectRef{Bucket: "dev-cucumbers", Key: "holds.csv"})
	require.NoError(t, err)
	assert.Equal(t, "123", source.CreatorID)
	assert.Equal(t, []byte("Vendor Id,Description\n"), source.Data)
}

func TestSourceLoaderMissingCreatorSkipsDownload(t *testing.T) {
	for name, metadata := range map[string]map[string]string{
		"absent": {"uploader": "someone"},
		"blank":  {"creator_id": " "},
		"nil":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			store := mocks.NewMockObjectStore(t)
			store.On("Metadata", mocks.AnyContext(), "dev-cucumbers", "holds.csv").Return(metadata, nil)

			_, err := NewSourceLoader(store).Load(context.Background(), ObjectRef{Bucket: "dev-cucumbers", Key: "holds.csv"})
			require.ErrorIs(t, err, domain.ErrMissingCreatorID)
			assert.Contains(t, err.Error(), "dev-cucumbers/holds.csv")
			store.AssertNotCalled(t, "Get", mocks.AnyContext(), "dev-cucumbers", "holds.csv")
		})
	}
}

func TestSourceLoaderWrapsStoreErrors(t *testing.T) {
	store := mocks.NewMockObjectStore(t)
	boom := errors.New("access denied")
	store.On("Metadata", mocks.AnyContext(), "b", "k").Return(nil, boom)

	_, err := NewSourceLoader(store).Load(context.Background(), ObjectRef{Bucket: "b", Key: "k"})
	require.ErrorIs(t, err, boom)
	assert.False(t, domain.IsTerminal(err))
	assert.ErrorContains(t, err, "read object metadata b/k")
}
