package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/db/models"
)

func TestPartitionSelectionsByOrganizationIsStable(t *testing.T) {
	t.Parallel()

	orgA := uuid.New()
	orgB := uuid.New()
	selections := []models.WizardServiceSelection{
		{OrganizationID: orgB, UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
		{OrganizationID: orgA, UnitPrice: decimal.RequireFromString("20.00"), Quantity: 1},
		{OrganizationID: orgB, UnitPrice: decimal.RequireFromString("5.00"), Quantity: 3},
	}

	first := PartitionSelectionsByOrganization(selections)
	second := PartitionSelectionsByOrganization(selections)

	if len(first) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(first))
	}
	for i := range first {
		if first[i].OrganizationID != second[i].OrganizationID {
			t.Fatalf("partition order is not deterministic")
		}
	}

	counts := map[uuid.UUID]int{}
	for _, p := range first {
		counts[p.OrganizationID] = len(p.Selections)
	}
	if counts[orgA] != 1 || counts[orgB] != 2 {
		t.Fatalf("unexpected partition sizes: %v", counts)
	}
}

func TestPartitionSubtotalSumsLineTotals(t *testing.T) {
	t.Parallel()

	partition := SelectionPartition{
		OrganizationID: uuid.New(),
		Selections: []models.WizardServiceSelection{
			{UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
			{UnitPrice: decimal.RequireFromString("5.50"), Quantity: 1},
		},
	}

	if got, want := PartitionSubtotal(partition).String(), "25.5"; got != want {
		t.Fatalf("subtotal = %s, want %s", got, want)
	}
}

func TestLineTotalDefaultsZeroQuantityToOne(t *testing.T) {
	t.Parallel()

	sel := models.WizardServiceSelection{UnitPrice: decimal.RequireFromString("42.00")}
	if got, want := LineTotal(sel).String(), "42"; got != want {
		t.Fatalf("line total = %s, want %s", got, want)
	}
}
