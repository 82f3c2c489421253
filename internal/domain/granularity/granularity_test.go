package granularity

import "testing"

func TestAllOrdered(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("expected 7 levels, got %d", len(all))
	}
	for i, l := range all {
		if l.DisplayOrder != i {
			t.Errorf("level %s: display order %d at index %d", l.ID, l.DisplayOrder, i)
		}
	}
	if all[0].ID != Style {
		t.Errorf("expected first level %s, got %s", Style, all[0].ID)
	}
	if all[6].ID != LowerBody {
		t.Errorf("expected last level %s, got %s", LowerBody, all[6].ID)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"

	second := All()
	if second[0].Name == "mutated" {
		t.Error("All should return an independent copy")
	}
}

func TestByID(t *testing.T) {
	l, ok := ByID(Hair)
	if !ok {
		t.Fatal("hair should exist")
	}
	if l.Name != "Hair" || l.DisplayOrder != 2 {
		t.Errorf("unexpected level %+v", l)
	}

	if _, ok := ByID("torso"); ok {
		t.Error("torso should not exist")
	}
}

func TestValid(t *testing.T) {
	for _, id := range []string{Style, General, Hair, Face, UpperBody, Midsection, LowerBody} {
		if !Valid(id) {
			t.Errorf("%s should be valid", id)
		}
	}
	for _, id := range []string{"", "STYLE", "legs", "unknown"} {
		if Valid(id) {
			t.Errorf("%s should not be valid", id)
		}
	}
}

func TestDisplayOrderUnknown(t *testing.T) {
	if got := DisplayOrder("not-a-level"); got != UnknownOrder {
		t.Errorf("unknown id should sort last, got %d", got)
	}
	if got := DisplayOrder(Midsection); got != 5 {
		t.Errorf("expected 5 for midsection, got %d", got)
	}
}
