package domain

const (
	HoldStatusActive = "active"
	OutcomeSuccess   = "active hold successfully created."
)

type VendorHoldRequest struct {
	VendorID    string
	Description string
}

type ActiveHold struct {
	VendorID string
	HoldID   string
}

// ActiveHoldIndex maps vendor id to the id of its currently active hold.
type ActiveHoldIndex map[string]string

func NewActiveHoldIndex(holds []ActiveHold) ActiveHoldIndex {
	index := make(ActiveHoldIndex, len(holds))
	for _, hold := range holds {
		index[hold.VendorID] = hold.HoldID
	}

	return index
}

func (i ActiveHoldIndex) HoldID(vendorID string) (string, bool) {
	holdID, ok := i[vendorID]
	return holdID, ok
}

type HoldOutcome struct {
	VendorID string
	Result   string
}

func (o HoldOutcome) Succeeded() bool {
	return o.Result == OutcomeSuccess
}
