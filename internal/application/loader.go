package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/ports"
)

const CreatorIDMetadataKey = "creator_id"

type Source struct {
	Object    ObjectRef
	Data      []byte
	CreatorID string
}

type SourceLoader struct {
	store ports.ObjectStore
}

func NewSourceLoader(store ports.ObjectStore) *SourceLoader {
	return &SourceLoader{store: store}
}

// Load reads the object's metadata, insists on a non-blank creator tag, and only then
// downloads the body.
func (l *SourceLoader) Load(ctx context.Context, ref ObjectRef) (Source, error) {
	metadata, err := l.store.Metadata(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return Source{}, fmt.Errorf("read object metadata %s/%s: %w", ref.Bucket, ref.Key, err)
	}

	creatorID := strings.TrimSpace(metadata[CreatorIDMetadataKey])
	if creatorID == "" {
		return Source{}, &domain.MissingCreatorIDError{Bucket: ref.Bucket, Key: ref.Key}
	}

	data, err := l.store.Get(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return Source{}, fmt.Errorf("read object %s/%s: %w", ref.Bucket, ref.Key, err)
	}

	return Source{Object: ref, Data: data, CreatorID: creatorID}, nil
}
