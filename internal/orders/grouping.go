package orders

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/db/models"
)

// SelectionPartition is the slice of a session's service selections that one
// fulfilling organization will serve.
type SelectionPartition struct {
	OrganizationID uuid.UUID
	Selections     []models.WizardServiceSelection
}

// PartitionSelectionsByOrganization splits service selections by fulfilling
// organization. Partitions come back in a stable order so group numbers are
// deterministic for a given selection set.
func PartitionSelectionsByOrganization(selections []models.WizardServiceSelection) []SelectionPartition {
	byOrg := make(map[uuid.UUID][]models.WizardServiceSelection)
	for _, sel := range selections {
		byOrg[sel.OrganizationID] = append(byOrg[sel.OrganizationID], sel)
	}

	partitions := make([]SelectionPartition, 0, len(byOrg))
	for orgID, sels := range byOrg {
		partitions = append(partitions, SelectionPartition{
			OrganizationID: orgID,
			Selections:     sels,
		})
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].OrganizationID.String() < partitions[j].OrganizationID.String()
	})
	return partitions
}

// LineTotal computes quantity times unit price for one selection.
func LineTotal(sel models.WizardServiceSelection) decimal.Decimal {
	quantity := sel.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return sel.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// PartitionSubtotal sums the line totals of a partition.
func PartitionSubtotal(p SelectionPartition) decimal.Decimal {
	subtotal := decimal.Zero
	for _, sel := range p.Selections {
		subtotal = subtotal.Add(LineTotal(sel))
	}
	return subtotal
}
