package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/ports"
)

const (
	NotificationSubject = "Result For Bulk Accounting Payment Holds."

	summaryFooter = "You can view/edit these holds from OA > View vendor page > Payment holds panel."
)

type Notifier struct {
	publisher ports.Publisher
}

func NewNotifier(publisher ports.Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// Notify publishes one summary message for the run. Publish errors are returned as is.
func (n *Notifier) Notify(ctx context.Context, run domain.RunContext, outcomes []domain.HoldOutcome) (ports.Notification, error) {
	notification := ports.Notification{
		Subject: NotificationSubject,
		Message: FormatSummary(run.SourceFile, run.CorrelationID, outcomes),
	}

	if err := n.publisher.Publish(ctx, notification); err != nil {
		return notification, fmt.Errorf("publish notification: %w", err)
	}

	return notification, nil
}

func FormatSummary(file, correlationID string, outcomes []domain.HoldOutcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		lines = append(lines, fmt.Sprintf("Vendor %s :: %s", outcome.VendorID, outcome.Result))
	}

	sections := []string{
		"Bulk Payment Hold Filename: " + baseName(file),
		"Run id: " + correlationID,
		"For holds data in this csv: \n\n" + strings.Join(lines, "\n"),
		summaryFooter,
	}

	return strings.Join(sections, "\n\n")
}

func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
