package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	filestore "github.com/bnema/payment-holds/internal/adapters/objectstore/file"
	"github.com/bnema/payment-holds/internal/application"
	"github.com/spf13/cobra"
)

const defaultKeyPrefix = "bulk_payment_holds/"

type stageFlags struct {
	storeRoot string
	bucket    string
	key       string
	creatorID string
}

func newStageCmd() *cobra.Command {
	var flags stageFlags

	cmd := &cobra.Command{
		Use:   "stage <file>",
		Short: "Copy a holds table into a local store and print the matching S3 event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.storeRoot, "store-root", "", "Local object store directory")
	cmd.Flags().StringVar(&flags.bucket, "bucket", "", "Bucket name")
	cmd.Flags().StringVar(&flags.key, "key", "", "Object key (default: "+defaultKeyPrefix+"<file name>)")
	cmd.Flags().StringVar(&flags.creatorID, "creator-id", "", "Creator id stored in the object metadata; omit to stage an untagged object")
	_ = cmd.MarkFlagRequired("store-root")
	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func runStage(cmd *cobra.Command, path string, flags stageFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}

	key := strings.TrimSpace(flags.key)
	if key == "" {
		key = defaultKeyPrefix + filepath.Base(path)
	}

	metadata := map[string]string{}
	if flags.creatorID != "" {
		metadata[application.CreatorIDMetadataKey] = flags.creatorID
	}

	store := filestore.NewStore(flags.storeRoot)
	if err := store.Put(cmd.Context(), flags.bucket, key, data, metadata); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(objectCreatedEvent(flags.bucket, key, int64(len(data))))
}

func objectCreatedEvent(bucket, key string, size int64) events.S3Event {
	return events.S3Event{Records: []events.S3EventRecord{{
		EventVersion: "2.0",
		EventSource:  "aws:s3",
		EventName:    "ObjectCreated:Put",
		S3: events.S3Entity{
			SchemaVersion: "1.0",
			Bucket:        events.S3Bucket{Name: bucket},
			Object:        events.S3Object{Key: escapeKey(key), Size: size},
		},
	}}}
}

// escapeKey encodes each path segment the way S3 notifications do.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
