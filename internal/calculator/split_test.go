package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEqualSplit(t *testing.T) {
	shares, err := EqualSplit(decimal.RequireFromString("90.00"), 3)
	if err != nil {
		t.Fatalf("EqualSplit failed: %v", err)
	}

	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
	want := decimal.RequireFromString("30.00")
	for i, s := range shares {
		if !s.Equal(want) {
			t.Errorf("share %d: expected 30.00, got %s", i, s)
		}
	}
}

func TestEqualSplit_RoundingResidue(t *testing.T) {
	total := decimal.RequireFromString("100.00")
	shares, err := EqualSplit(total, 3)
	if err != nil {
		t.Fatalf("EqualSplit failed: %v", err)
	}

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}

	// 100/3 rounds to 33.33 per head; the residue is not redistributed,
	// so the sum differs from the total by less than n cents.
	residue := total.Sub(sum).Abs()
	limit := decimal.RequireFromString("0.03")
	if residue.GreaterThanOrEqual(limit) {
		t.Errorf("residue %s exceeds %s", residue, limit)
	}
	if sum.Equal(total) {
		t.Errorf("expected a rounding residue for 100/3, got exact sum")
	}
}

func TestEqualSplit_NoParticipants(t *testing.T) {
	if _, err := EqualSplit(decimal.RequireFromString("50"), 0); err == nil {
		t.Error("expected error for zero participants")
	}
}

func TestCustomSplit(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("50"),
		decimal.RequireFromString("30"),
		decimal.RequireFromString("20"),
	}

	shares, err := CustomSplit(amounts, 3)
	if err != nil {
		t.Fatalf("CustomSplit failed: %v", err)
	}

	for i, want := range []string{"50", "30", "20"} {
		if !shares[i].Equal(decimal.RequireFromString(want)) {
			t.Errorf("share %d: expected %s, got %s", i, want, shares[i])
		}
	}
}

func TestCustomSplit_ShortVectorDefaultsToZero(t *testing.T) {
	amounts := []decimal.Decimal{decimal.RequireFromString("75")}

	shares, err := CustomSplit(amounts, 3)
	if err != nil {
		t.Fatalf("CustomSplit failed: %v", err)
	}

	if !shares[0].Equal(decimal.RequireFromString("75")) {
		t.Errorf("share 0: expected 75, got %s", shares[0])
	}
	for i := 1; i < 3; i++ {
		if !shares[i].IsZero() {
			t.Errorf("share %d: expected 0, got %s", i, shares[i])
		}
	}
}

func TestCustomSplit_NoParticipants(t *testing.T) {
	if _, err := CustomSplit(nil, 0); err == nil {
		t.Error("expected error for zero participants")
	}
}
