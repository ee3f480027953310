package cmd

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"
)

func newLambdaCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve S3 object-created events from the Lambda runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd, app)
		},
	}
}

func runLambda(cmd *cobra.Command, app *app) error {
	handler, err := app.lambdaHandler(cmd.Context())
	if err != nil {
		return err
	}

	app.logger.Info().Msg("starting lambda handler")
	app.startLambda(func(ctx context.Context, event events.S3Event) error {
		return handler.Handle(app.withLogger(ctx), event)
	})
	return nil
}
