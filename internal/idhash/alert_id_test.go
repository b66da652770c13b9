package idhash

import (
	"testing"
	"time"
)

func TestComputeAlertID(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got := ComputeAlertID("TokenMint123ABC", at)
	if len(got) != 64 {
		t.Errorf("ComputeAlertID() length = %d, want 64", len(got))
	}

	// Same inputs must produce the same id
	got2 := ComputeAlertID("TokenMint123ABC", at)
	if got != got2 {
		t.Errorf("ComputeAlertID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeAlertID_DifferentInputs(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	base := ComputeAlertID("Mint", at)

	if diff := ComputeAlertID("DifferentMint", at); diff == base {
		t.Error("different mint should produce different id")
	}
	if diff := ComputeAlertID("Mint", at.Add(time.Millisecond)); diff == base {
		t.Error("different timestamp should produce different id")
	}
}
