package models

// Snapshot is a point-in-time copy of the four domain collections.
// The KPI and alert engines only ever read snapshots.
type Snapshot struct {
	WorkOrders    []WorkOrder    `json:"work_orders"`
	Machines      []Machine      `json:"machines"`
	Operators     []Operator     `json:"operators"`
	QualityChecks []QualityCheck `json:"quality_checks"`
}

// WorkOrderByID indexes work orders by identity.
func (s Snapshot) WorkOrderByID() map[string]WorkOrder {
	index := make(map[string]WorkOrder, len(s.WorkOrders))
	for _, wo := range s.WorkOrders {
		index[wo.ID] = wo
	}
	return index
}
