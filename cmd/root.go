package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const lambdaRuntimeEnv = "AWS_LAMBDA_RUNTIME_API"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "holds",
		Short:         "Bulk payment holds: apply vendor payment holds from an uploaded table",
		Long:          "holds reads a vendor_id,description table uploaded to object storage, creates or updates one active payment hold per vendor, and publishes a summary notification. Inside AWS Lambda it serves S3 events; locally it can process a single event file.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	if os.Getenv(lambdaRuntimeEnv) != "" {
		rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd, app)
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLambdaCmd(app),
		newProcessCmd(app),
		newStageCmd(),
	)

	return rootCmd
}
