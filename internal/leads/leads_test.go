package leads

import (
	"testing"
	"time"

	"carbcheck/internal/kv"
)

func TestAddPrependsAndPersists(t *testing.T) {
	mem := kv.NewMem()
	s := NewStore(mem)

	first, err := s.Add(Lead{Company: "Valley Freight", Industry: "Agriculture Hauling", Location: "Stockton, CA", Phone: "2095550101"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" || first.CapturedAt.IsZero() {
		t.Fatalf("Add did not stamp the lead: %+v", first)
	}

	second, err := s.Add(Lead{Company: "Bay Crane & Rigging", Industry: "Construction", Location: "Oakland, CA", Phone: "5105550199", DOT: "1234567"})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID == first.ID {
		t.Error("leads share an ID")
	}

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Company != "Bay Crane & Rigging" {
		t.Errorf("newest lead not first: %q", all[0].Company)
	}

	// Reopening against the same kv sees the persisted list.
	reopened := NewStore(mem)
	if got := reopened.All(); len(got) != 2 || got[1].Company != "Valley Freight" {
		t.Errorf("reopened store lost leads: %+v", got)
	}
}

func TestCorruptBlobMeansNoLeads(t *testing.T) {
	mem := kv.NewMem()
	if err := mem.Set("leads", "{not json"); err != nil {
		t.Fatal(err)
	}
	s := NewStore(mem)
	if got := s.All(); got != nil {
		t.Errorf("All() = %+v, want nil for corrupt blob", got)
	}
	// The store stays usable after the bad blob.
	if _, err := s.Add(Lead{Company: "Delta Towing"}); err != nil {
		t.Fatal(err)
	}
	if len(s.All()) != 1 {
		t.Error("Add after corrupt blob did not persist")
	}
}

func TestCapturedAtUsesClock(t *testing.T) {
	s := NewStore(kv.NewMem())
	fixed := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	lead, err := s.Add(Lead{Company: "Sierra Logging Co"})
	if err != nil {
		t.Fatal(err)
	}
	if !lead.CapturedAt.Equal(fixed) {
		t.Errorf("CapturedAt = %v, want %v", lead.CapturedAt, fixed)
	}
}

func TestProjectionsTable(t *testing.T) {
	rows := Projections()
	if len(rows) != 5 {
		t.Fatalf("len = %d, want 5", len(rows))
	}
	if rows[0].Year != 2026 || rows[4].Year != 2030 {
		t.Errorf("year span %d..%d", rows[0].Year, rows[4].Year)
	}
	for _, r := range rows {
		if r.TotalTests != r.Trucks*r.TestsPerYear {
			t.Errorf("%d: total tests %d != trucks %d * tests/yr %d", r.Year, r.TotalTests, r.Trucks, r.TestsPerYear)
		}
		if r.Revenue != r.TotalTests*r.Price {
			t.Errorf("%d: revenue %d != total %d * price %d", r.Year, r.Revenue, r.TotalTests, r.Price)
		}
	}
}
