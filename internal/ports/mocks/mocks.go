// Package mocks holds testify mocks for the ports interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/bnema/payment-holds/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockObjectStore struct {
	mock.Mock
}

var _ ports.ObjectStore = (*MockObjectStore)(nil)

func NewMockObjectStore(t testing.TB) *MockObjectStore {
	m := &MockObjectStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockObjectStore) Metadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	args := m.Called(ctx, bucket, key)
	metadata, _ := args.Get(0).(map[string]string)
	return metadata, args.Error(1)
}

func (m *MockObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type MockServiceClient struct {
	mock.Mock
}

var _ ports.ServiceClient = (*MockServiceClient)(nil)

func NewMockServiceClient(t testing.TB) *MockServiceClient {
	m := &MockServiceClient{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockServiceClient) Send(ctx context.Context, req ports.Request) (ports.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(ports.Response)
	return resp, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

var _ ports.Publisher = (*MockPublisher)(nil)

func NewMockPublisher(t testing.TB) *MockPublisher {
	m := &MockPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPublisher) Publish(ctx context.Context, notification ports.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockCorrelationIDSource struct {
	mock.Mock
}

var _ ports.CorrelationIDSource = (*MockCorrelationIDSource)(nil)

func NewMockCorrelationIDSource(t testing.TB) *MockCorrelationIDSource {
	m := &MockCorrelationIDSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCorrelationIDSource) NewCorrelationID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// AnyContext matches any context argument.
func AnyContext() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}
