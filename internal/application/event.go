package application

import (
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bnema/payment-holds/internal/domain"
)

// ObjectRef names the stored object an event points at. Key is already decoded.
type ObjectRef struct {
	Bucket string
	Key    string
}

// ValidateEvent extracts the object reference from the first record of an S3
// notification.
func ValidateEvent(event events.S3Event) (ObjectRef, error) {
	if len(event.Records) == 0 {
		return ObjectRef{}, &domain.InvalidEventError{Field: "Records", Message: "no records"}
	}

	record := event.Records[0].S3
	if strings.TrimSpace(record.Bucket.Name) == "" {
		return ObjectRef{}, &domain.InvalidEventError{Field: "Records[0].s3.bucket.name", Message: "bucket name is empty"}
	}
	if strings.TrimSpace(record.Object.Key) == "" {
		return ObjectRef{}, &domain.InvalidEventError{Field: "Records[0].s3.object.key", Message: "object key is empty"}
	}

	// S3 notifications percent-encode keys. '+' is not turned into a space.
	key, err := url.PathUnescape(record.Object.Key)
	if err != nil {
		return ObjectRef{}, &domain.InvalidEventError{Field: "Records[0].s3.object.key", Message: err.Error()}
	}

	return ObjectRef{Bucket: record.Bucket.Name, Key: key}, nil
}
