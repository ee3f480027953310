package domain

// VendorTable is an insertion-ordered vendor id -> description mapping.
// Setting an existing id replaces its description but keeps its position.
type VendorTable struct {
	order        []string
	descriptions map[string]string
}

func NewVendorTable() *VendorTable {
	return &VendorTable{descriptions: map[string]string{}}
}

func (t *VendorTable) Set(vendorID, description string) {
	if t.descriptions == nil {
		t.descriptions = map[string]string{}
	}
	if _, ok := t.descriptions[vendorID]; !ok {
		t.order = append(t.order, vendorID)
	}
	t.descriptions[vendorID] = description
}

func (t *VendorTable) Description(vendorID string) (string, bool) {
	if t == nil {
		return "", false
	}

	description, ok := t.descriptions[vendorID]
	return description, ok
}

func (t *VendorTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.order)
}

func (t *VendorTable) VendorIDs() []string {
	if t == nil {
		return nil
	}

	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

func (t *VendorTable) Requests() []VendorHoldRequest {
	if t == nil {
		return nil
	}

	requests := make([]VendorHoldRequest, 0, len(t.order))
	for _, id := range t.order {
		requests = append(requests, VendorHoldRequest{VendorID: id, Description: t.descriptions[id]})
	}

	return requests
}
