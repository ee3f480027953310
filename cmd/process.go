package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bnema/payment-holds/internal/adapters/render/summary"
	"github.com/bnema/payment-holds/internal/application"
	"github.com/bnema/payment-holds/internal/domain"
	"github.com/spf13/cobra"
)

type processFlags struct {
	eventPath         string
	storeRoot         string
	printNotification bool
	asJSON            bool
}

type processOutput struct {
	Bucket        string          `json:"bucket"`
	Key           string          `json:"key"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	CreatorID     string          `json:"creator_id,omitempty"`
	Outcomes      []outcomeOutput `json:"outcomes"`
	Notified      bool            `json:"notified"`
	Notification  string          `json:"notification,omitempty"`
	Error         string          `json:"error,omitempty"`
	Stopped       bool            `json:"stopped,omitempty"`
}

type outcomeOutput struct {
	VendorID  string `json:"vendor_id"`
	Result    string `json:"result"`
	Succeeded bool   `json:"succeeded"`
}

func newProcessCmd(app *app) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run one invocation locally from an S3 event file",
		Long:  "process feeds an S3 object-created event (a JSON file, or - for stdin) through the same handler the Lambda runs. With --store-root the object is read from a local directory instead of S3; without SNS_ARN the notification is printed to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.eventPath, "event", "", "Path to an S3 event JSON file, or - for stdin")
	cmd.Flags().StringVar(&flags.storeRoot, "store-root", "", "Read objects from this directory (<root>/<bucket>/<key>) instead of S3")
	cmd.Flags().BoolVar(&flags.printNotification, "print-notification", false, "Include the notification text in the output")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

func runProcess(cmd *cobra.Command, app *app, flags processFlags) error {
	event, err := readEvent(cmd.InOrStdin(), flags.eventPath)
	if err != nil {
		return err
	}

	ctx := app.withLogger(cmd.Context())
	var (
		printed  bytes.Buffer
		progress application.ProgressFunc
	)
	handler, err := app.localHandler(ctx, localOptions{
		storeRoot:          flags.storeRoot,
		notificationOutput: &printed,
		progress: func(done, total int, outcome domain.HoldOutcome) {
			if progress != nil {
				progress(done, total, outcome)
			}
		},
	})
	if err != nil {
		return err
	}

	var (
		report application.Report
		runErr error
	)
	process := func(ctx context.Context, onVendor application.ProgressFunc) error {
		progress = onVendor
		report, runErr = handler.Process(ctx, event)
		return nil
	}

	if flags.asJSON {
		_ = process(ctx, nil)
	} else if err := runProcessSpinner(ctx, cmd.ErrOrStderr(), eventObject(event), process); err != nil {
		return err
	}

	if printed.Len() > 0 {
		if _, err := cmd.ErrOrStderr().Write(printed.Bytes()); err != nil {
			return err
		}
	}

	if err := writeProcessOutput(cmd, app, report, runErr, flags); err != nil {
		return err
	}

	return runErr
}

func eventObject(event events.S3Event) string {
	if len(event.Records) == 0 {
		return "event"
	}
	object := event.Records[0].S3
	return object.Bucket.Name + "/" + object.Object.Key
}

func readEvent(stdin io.Reader, path string) (events.S3Event, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return events.S3Event{}, fmt.Errorf("read event file: %w", err)
	}

	var event events.S3Event
	if err := json.Unmarshal(data, &event); err != nil {
		return events.S3Event{}, fmt.Errorf("decode event file: %w", err)
	}
	return event, nil
}

func writeProcessOutput(cmd *cobra.Command, app *app, report application.Report, runErr error, flags processFlags) error {
	if flags.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toProcessOutput(report, runErr, flags.printNotification))
	}

	rendered, err := app.summaryRenderer(report, summary.RenderOptions{
		Err:              runErr,
		ShowNotification: flags.printNotification,
	})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func toProcessOutput(report application.Report, runErr error, withNotification bool) processOutput {
	out := processOutput{
		Bucket:        report.Object.Bucket,
		Key:           report.Object.Key,
		CorrelationID: report.Run.CorrelationID,
		CreatorID:     report.Run.SourceIdentity,
		Outcomes:      make([]outcomeOutput, 0, len(report.Outcomes)),
		Notified:      report.Notified,
	}
	for _, outcome := range report.Outcomes {
		out.Outcomes = append(out.Outcomes, outcomeOutput{
			VendorID:  outcome.VendorID,
			Result:    outcome.Result,
			Succeeded: outcome.Succeeded(),
		})
	}
	if withNotification {
		out.Notification = report.Notification.Message
	}
	if runErr != nil {
		out.Error = runErr.Error()
		out.Stopped = domain.IsTerminal(runErr)
	}
	return out
}
