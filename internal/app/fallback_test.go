package app

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestFallbackLeads_Deterministic(t *testing.T) {
	first := fallbackLeads("Jaipur", "", 0)
	second := fallbackLeads("Jaipur", "", 0)

	if len(first) != len(fallbackSeeds) {
		t.Fatalf("want the full catalog, got %d", len(first))
	}
	if len(first) < 35 {
		t.Fatalf("catalog must hold at least 35 entries, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("offline catalog must be deterministic")
	}

	for i, lead := range first {
		wantID := fmt.Sprintf("mock_jaipur_%d", i+1)
		if lead.PlaceID != wantID {
			t.Fatalf("entry %d id = %s, want %s", i, lead.PlaceID, wantID)
		}
		if !strings.Contains(lead.Address, "Jaipur, India") {
			t.Fatalf("entry %d address missing city: %s", i, lead.Address)
		}
		if lead.Website != "" {
			t.Fatalf("entry %d must have no website: %s", i, lead.Website)
		}
		if !lead.OpenNow || lead.Location == nil {
			t.Fatalf("entry %d incomplete: %+v", i, lead)
		}
		if err := lead.Validate(); err != nil {
			t.Fatalf("entry %d invalid: %v", i, err)
		}
	}
}

func TestFallbackLeads_TypeOverrideAndCap(t *testing.T) {
	leads := fallbackLeads("Surat", "Dental Clinic", 5)

	if len(leads) != 5 {
		t.Fatalf("cap ignored: %d", len(leads))
	}
	for _, lead := range leads {
		if lead.Category != "Dental Clinic" {
			t.Fatalf("business type must override category, got %s", lead.Category)
		}
	}
}
