package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/payment-holds/internal/application"
	"github.com/bnema/payment-holds/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	// Err is the error the run stopped with, if any.
	Err              error
	ShowNotification bool
}

func renderView(report application.Report, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Bulk Payment Holds"),
		s.header.Render(headerLine(report)),
	}

	if opts.Err != nil {
		lines = append(lines, s.section.Render(errorLine(opts.Err, s)))
	}

	if len(report.Outcomes) == 0 {
		if opts.Err == nil {
			lines = append(lines, s.section.Render(s.empty.Render("No vendors in this file.")))
		}
	} else {
		lines = append(lines, s.section.Render(progressLine(report.Outcomes, s)))
		outcomeLines := make([]string, 0, len(report.Outcomes))
		for _, outcome := range report.Outcomes {
			outcomeLines = append(outcomeLines, outcomeLine(outcome, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, outcomeLines...)))
	}

	if report.Notified {
		lines = append(lines, s.section.Render(s.header.Render("notification: sent")))
	}
	if opts.ShowNotification && report.Notification.Message != "" {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			s.title.Render(report.Notification.Subject),
			s.message.Render(report.Notification.Message),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(report application.Report) string {
	parts := make([]string, 0, 3)
	if report.Object.Key != "" {
		parts = append(parts, fmt.Sprintf("file: %s/%s", report.Object.Bucket, report.Object.Key))
	}
	if report.Run.CorrelationID != "" {
		parts = append(parts, "run: "+report.Run.CorrelationID)
	}
	if report.Run.SourceIdentity != "" {
		parts = append(parts, "creator: "+report.Run.SourceIdentity)
	}
	if len(parts) == 0 {
		return "no object"
	}
	return strings.Join(parts, "  ")
}

func errorLine(err error, s styles) string {
	if domain.IsTerminal(err) {
		return s.warning.Render("stopped: ") + err.Error()
	}
	return s.failure.Render("failed: ") + err.Error()
}

func progressLine(outcomes []domain.HoldOutcome, s styles) string {
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
		}
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderProgressBar(succeeded, len(outcomes), barWidth, s),
		" ",
		fmt.Sprintf("%d/%d holds applied", succeeded, len(outcomes)),
	)
}

func outcomeLine(outcome domain.HoldOutcome, s styles) string {
	mark := s.success.Render("ok  ")
	result := outcome.Result
	if !outcome.Succeeded() {
		mark = s.failure.Render("fail")
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		mark,
		" ",
		s.vendor.Render("Vendor "+outcome.VendorID),
		" :: ",
		result,
	)
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(done) / float64(total)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
