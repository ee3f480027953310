package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/logging"
	"github.com/bnema/payment-holds/internal/ports"
	"github.com/bnema/payment-holds/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBucket = "dev-cucumbers"
	testKey    = "bulk_payment_holds/template.csv"
	testCSV    = "Vendor Id,Description\n123,desc\n456,desc2"
)

type handlerFixture struct {
	store     *mocks.MockObjectStore
	client    *mocks.MockServiceClient
	publisher *mocks.MockPublisher
	handler   *Handler
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()

	f := handlerFixture{
		store:     mocks.NewMockObjectStore(t),
		client:    mocks.NewMockServiceClient(t),
		publisher: mocks.NewMockPublisher(t),
	}
	f.handler = NewHandler(f.store, f.client, f.publisher, ports.StaticID(testCorrelationID))
	return f
}

func (f handlerFixture) expectObject(metadata map[string]string, body string) {
	f.store.On("Metadata", mocks.AnyContext(), testBucket, testKey).Return(metadata, nil).Once()
	if body != "" {
		f.store.On("Get", mocks.AnyContext(), testBucket, testKey).Return([]byte(body), nil).Once()
	}
}

func summaryFor(lines string) string {
	return "Bulk Payment Hold Filename: template.csv\n\n" +
		"Run id: 12345.11\n\n" +
		"For holds data in this csv: \n\n" +
		lines + "\n\n" +
		"You can view/edit these holds from OA > View vendor page > Payment holds panel."
}

func TestHandlerCreatesHoldsForEveryVendor(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, testCSV)
	f.client.On("Send", mocks.AnyContext(), activeHoldsRequest("123,456")).Return(okResponse(`{"items":[]}`), nil).Once()
	f.client.On("Send", mocks.AnyContext(), createRequest("123", "desc")).Return(okResponse("{}"), nil).Once()
	f.client.On("Send", mocks.AnyContext(), createRequest("456", "desc2")).Return(okResponse("{}"), nil).Once()
	f.publisher.On("Publish", mocks.AnyContext(), ports.Notification{
		Subject: NotificationSubject,
		Message: summaryFor("Vendor 123 :: active hold successfully created.\nVendor 456 :: active hold successfully created."),
	}).Return(nil).Once()

	report, err := f.handler.Process(context.Background(), s3Event(testBucket, testKey))
	require.NoError(t, err)

	assert.True(t, report.Notified)
	assert.Equal(t, testCorrelationID, report.Run.CorrelationID)
	assert.Equal(t, "oa:123", report.Run.ActorID())
	assert.Len(t, report.Outcomes, 2)
}

func TestHandlerUpdatesExistingHold(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, testCSV)
	f.client.On("Send", mocks.AnyContext(), activeHoldsRequest("123,456")).
		Return(okResponse(`{"items":[{"vendor_id":"456","hold_id":"1031"}]}`), nil).Once()
	f.client.On("Send", mocks.AnyContext(), createRequest("123", "desc")).Return(okResponse("{}"), nil).Once()
	f.client.On("Send", mocks.AnyContext(), updateRequest("1031", "desc2")).Return(okResponse("{}"), nil).Once()
	f.publisher.On("Publish", mocks.AnyContext(), mock.Anything).Return(nil).Once()

	require.NoError(t, f.handler.Handle(context.Background(), s3Event(testBucket, testKey)))
	f.client.AssertNumberOfCalls(t, "Send", 3)
}

func TestHandlerEveryCallCarriesTheRunID(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, testCSV)
	f.client.On("Send", mocks.AnyContext(), mock.MatchedBy(func(req ports.Request) bool {
		return req.CorrelationID == testCorrelationID
	})).Return(okResponse(`{"items":[]}`), nil).Times(3)
	f.publisher.On("Publish", mocks.AnyContext(), mock.Anything).Return(nil).Once()

	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Format: logging.FormatJSON, Output: &logs})
	ctx := logging.WithLogger(context.Background(), &logger)

	_, err := f.handler.Process(ctx, s3Event(testBucket, testKey))
	require.NoError(t, err)

	assert.Contains(t, logs.String(), `"correlation_id":"12345.11"`)
	assert.Contains(t, logs.String(), `"message":"received event"`)
	assert.Contains(t, logs.String(), `"vendor_id":"456"`)
}

func TestHandlerMissingCreatorStopsQuietly(t *testing.T) {
	f := newHandlerFixture(t)
	f.store.On("Metadata", mocks.AnyContext(), testBucket, testKey).Return(map[string]string{}, nil).Twice()

	report, err := f.handler.Process(context.Background(), s3Event(testBucket, testKey))
	require.ErrorIs(t, err, domain.ErrMissingCreatorID)
	assert.False(t, report.Notified)

	require.NoError(t, f.handler.Handle(context.Background(), s3Event(testBucket, testKey)))
	f.client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestHandlerInvalidEventTouchesNothing(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.handler.Process(context.Background(), s3Event("", testKey))
	require.ErrorIs(t, err, domain.ErrInvalidEvent)
	require.NoError(t, f.handler.Handle(context.Background(), s3Event("", testKey)))

	f.store.AssertNotCalled(t, "Metadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlerUnreadableTableMakesNoRemoteCalls(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, "Vendor Id,Description\n123\n")

	err := f.handler.Handle(context.Background(), s3Event(testBucket, testKey))
	require.NoError(t, err)
	f.client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandlerFailedLookupSendsNothing(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, testCSV)
	f.client.On("Send", mocks.AnyContext(), activeHoldsRequest("123,456")).
		Return(ports.Response{StatusCode: 503, Text: "unavailable"}, nil).Once()

	report, err := f.handler.Process(context.Background(), s3Event(testBucket, testKey))
	require.ErrorIs(t, err, domain.ErrActiveHoldsQuery)
	assert.Empty(t, report.Outcomes)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestHandlerEmptyTableStillNotifies(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectObject(map[string]string{"creator_id": "123"}, "Vendor Id,Description\n")
	f.client.On("Send", mocks.AnyContext(), activeHoldsRequest("")).Return(okResponse(`{"items":[]}`), nil).Once()
	f.publisher.On("Publish", mocks.AnyContext(), ports.Notification{
		Subject: NotificationSubject,
		Message: summaryFor(""),
	}).Return(nil).Once()

	report, err := f.handler.Process(context.Background(), s3Event(testBucket, testKey))
	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
	assert.True(t, report.Notified)
}

func TestHandlerReturnsPlatformFailures(t *testing.T) {
	t.Run("publish", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectObject(map[string]string{"creator_id": "123"}, "Vendor Id,Description\n123,desc\n")
		f.client.On("Send", mocks.AnyContext(), activeHoldsRequest("123")).Return(okResponse(`{"items":[]}`), nil).Once()
		f.client.On("Send", mocks.AnyContext(), createRequest("123", "desc")).Return(okResponse("{}"), nil).Once()
		f.publisher.On("Publish", mocks.AnyContext(), mock.Anything).Return(errors.New("throttled")).Once()

		err := f.handler.Handle(context.Background(), s3Event(testBucket, testKey))
		require.Error(t, err)
		assert.ErrorContains(t, err, "publish notification: throttled")
	})

	t.Run("object store", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.store.On("Metadata", mocks.AnyContext(), testBucket, testKey).Return(nil, errors.New("access denied")).Once()

		err := f.handler.Handle(context.Background(), s3Event(testBucket, testKey))
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestHandlerCorrelationIDFailure(t *testing.T) {
	store := mocks.NewMockObjectStore(t)
	ids := mocks.NewMockCorrelationIDSource(t)
	store.On("Metadata", mocks.AnyContext(), testBucket, testKey).Return(map[string]string{"creator_id": "123"}, nil).Once()
	store.On("Get", mocks.AnyContext(), testBucket, testKey).Return([]byte(testCSV), nil).Once()
	ids.On("NewCorrelationID").Return("", errors.New("no clock")).Once()

	handler := NewHandler(store, mocks.NewMockServiceClient(t), mocks.NewMockPublisher(t), ids)
	assert.Error(t, handler.Handle(context.Background(), s3Event(testBucket, testKey)))
}

func TestHandlerWithProgress(t *testing.T) {
	store := mocks.NewMockObjectStore(t)
	client := mocks.NewMockServiceClient(t)
	publisher := mocks.NewMockPublisher(t)
	store.On("Metadata", mocks.AnyContext(), testBucket, testKey).Return(map[string]string{"creator_id": "123"}, nil).Once()
	store.On("Get", mocks.AnyContext(), testBucket, testKey).Return([]byte(testCSV), nil).Once()
	client.On("Send", mocks.AnyContext(), mock.Anything).Return(okResponse(`{"items":[]}`), nil).Times(3)
	publisher.On("Publish", mocks.AnyContext(), mock.Anything).Return(nil).Once()

	var vendors []string
	handler := NewHandler(store, client, publisher, ports.StaticID(testCorrelationID),
		WithProgress(func(done, total int, outcome domain.HoldOutcome) {
			assert.Equal(t, 2, total)
			vendors = append(vendors, outcome.VendorID)
		}),
	)

	_, err := handler.Process(context.Background(), s3Event(testBucket, testKey))
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, vendors)
}
