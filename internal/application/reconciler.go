package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/logging"
	"github.com/bnema/payment-holds/internal/ports"
)

const (
	PaymentHoldService = "ows-accounting"

	HeaderContentType = "Content-type"
	HeaderUserID      = "Orchard-User-Id"
	HeaderAccountType = "Grass-Account-Type"

	accountTypeVendor = "vendor"
	contentTypeJSON   = "application/json"
)

type holdPayload struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type activeHoldsPayload struct {
	Items []activeHoldItem `json:"items"`
}

type activeHoldItem struct {
	VendorID flexibleID `json:"vendor_id"`
	HoldID   flexibleID `json:"hold_id"`
}

// flexibleID accepts ids the service sends either as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*f = flexibleID(n.String())
	return nil
}

// ProgressFunc is told about every vendor outcome as soon as it is known.
type ProgressFunc func(done, total int, outcome domain.HoldOutcome)

type Reconciler struct {
	client   ports.ServiceClient
	progress ProgressFunc
}

func NewReconciler(client ports.ServiceClient) *Reconciler {
	return &Reconciler{client: client}
}

// Reconcile looks up every vendor's active hold in one call, then updates the
// hold of vendors that have one and creates a hold for the rest, one vendor at
// a time in table order. A failing vendor call is recorded in its outcome and
// never stops the batch; only a failing lookup aborts.
func (r *Reconciler) Reconcile(ctx context.Context, run domain.RunContext, table *domain.VendorTable) ([]domain.HoldOutcome, error) {
	index, err := r.ActiveHolds(ctx, run, table.VendorIDs())
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	headers := holdHeaders(run)
	total := table.Len()
	outcomes := make([]domain.HoldOutcome, 0, total)
	for _, request := range table.Requests() {
		outcome := r.apply(ctx, run, headers, index, request)
		log.Debug().
			Str("vendor_id", outcome.VendorID).
			Bool("succeeded", outcome.Succeeded()).
			Str("result", outcome.Result).
			Msg("vendor hold processed")
		outcomes = append(outcomes, outcome)
		if r.progress != nil {
			r.progress(len(outcomes), total, outcome)
		}
	}

	return outcomes, nil
}

// ActiveHolds fetches the currently active holds for vendorIDs in a single request.
func (r *Reconciler) ActiveHolds(ctx context.Context, run domain.RunContext, vendorIDs []string) (domain.ActiveHoldIndex, error) {
	escaped := make([]string, len(vendorIDs))
	for i, id := range vendorIDs {
		escaped[i] = url.QueryEscape(id)
	}

	resp, err := r.client.Send(ctx, ports.Request{
		Method:        http.MethodGet,
		Service:       PaymentHoldService,
		Path:          "/holds/active?vendor_ids=" + strings.Join(escaped, ","),
		CorrelationID: run.CorrelationID,
	})
	if err != nil {
		return nil, &domain.ActiveHoldsQueryError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ActiveHoldsQueryError{StatusCode: resp.StatusCode, Body: resp.Text}
	}

	var payload activeHoldsPayload
	if err := resp.JSON(&payload); err != nil {
		return nil, &domain.ActiveHoldsQueryError{StatusCode: resp.StatusCode, Body: resp.Text, Err: err}
	}

	holds := make([]domain.ActiveHold, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.VendorID == "" {
			continue
		}
		holds = append(holds, domain.ActiveHold{VendorID: string(item.VendorID), HoldID: string(item.HoldID)})
	}

	return domain.NewActiveHoldIndex(holds), nil
}

func (r *Reconciler) apply(ctx context.Context, run domain.RunContext, headers map[string]string, index domain.ActiveHoldIndex, request domain.VendorHoldRequest) domain.HoldOutcome {
	body, err := json.Marshal(holdPayload{Status: domain.HoldStatusActive, Description: request.Description})
	if err != nil {
		return domain.HoldOutcome{VendorID: request.VendorID, Result: fmt.Sprintf("encode hold payload: %v", err)}
	}

	req := ports.Request{
		Method:        http.MethodPost,
		Service:       PaymentHoldService,
		Path:          "/holds/vendor/" + url.PathEscape(request.VendorID),
		CorrelationID: run.CorrelationID,
		Headers:       headers,
		Body:          body,
	}
	if holdID, ok := index.HoldID(request.VendorID); ok {
		req.Method = http.MethodPut
		req.Path = "/holds/" + url.PathEscape(holdID)
	}

	resp, err := r.client.Send(ctx, req)
	if err != nil {
		return domain.HoldOutcome{VendorID: request.VendorID, Result: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.HoldOutcome{VendorID: request.VendorID, Result: resp.Text}
	}

	return domain.HoldOutcome{VendorID: request.VendorID, Result: domain.OutcomeSuccess}
}

func holdHeaders(run domain.RunContext) map[string]string {
	return map[string]string{
		HeaderContentType: contentTypeJSON,
		HeaderUserID:      run.ActorID(),
		HeaderAccountType: accountTypeVendor,
	}
}
