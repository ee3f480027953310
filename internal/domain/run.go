package domain

import (
	"fmt"
	"strings"
)

// RunContext travels with every outbound call of a single invocation.
type RunContext struct {
	CorrelationID  string
	SourceIdentity string
	SourceFile     string
}

func NewRunContext(correlationID, sourceIdentity, sourceFile string) (RunContext, error) {
	if strings.TrimSpace(correlationID) == "" {
		return RunContext{}, fmt.Errorf("correlation id is required")
	}

	return RunContext{
		CorrelationID:  correlationID,
		SourceIdentity: sourceIdentity,
		SourceFile:     sourceFile,
	}, nil
}

// ActorID is the identity the payment-hold service records as the author of a hold.
func (r RunContext) ActorID() string {
	return "oa:" + r.SourceIdentity
}
