package orders

import (
	"strings"
	"testing"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number, err := GenerateOrderNumber()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !strings.HasPrefix(number, "ORD-") {
			t.Fatalf("missing prefix: %s", number)
		}
		suffix := strings.TrimPrefix(number, "ORD-")
		if len(suffix) != orderNumberSuffixLength {
			t.Fatalf("suffix length = %d, want %d", len(suffix), orderNumberSuffixLength)
		}
		for _, r := range suffix {
			if !strings.ContainsRune(orderNumberAlphabet, r) {
				t.Fatalf("unexpected character %q in %s", r, number)
			}
		}
		if seen[number] {
			t.Fatalf("duplicate number in 100 draws: %s", number)
		}
		seen[number] = true
	}
}

func TestGroupNumberIsSequentialWithinOrder(t *testing.T) {
	t.Parallel()

	if got, want := GroupNumber("ORD-AAAA", 1), "ORD-AAAA-G1"; got != want {
		t.Fatalf("group number = %s, want %s", got, want)
	}
	if got, want := GroupNumber("ORD-AAAA", 12), "ORD-AAAA-G12"; got != want {
		t.Fatalf("group number = %s, want %s", got, want)
	}
}
