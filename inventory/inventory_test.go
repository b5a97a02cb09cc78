package inventory

import "testing"

func TestUpdateStateFirstReadIsAChange(t *testing.T) {
	inv := New()
	changed, _, updated := inv.UpdateState(Zone, 5, []byte{0x01})
	if !changed {
		t.Error("first read should report changed=true")
	}
	if !updated.Flags["isOpen"] {
		t.Error("expected isOpen set")
	}
}

func TestUpdateStateNoChange(t *testing.T) {
	inv := New()
	inv.UpdateState(Zone, 5, []byte{0x01})
	changed, _, _ := inv.UpdateState(Zone, 5, []byte{0x01})
	if changed {
		t.Error("identical raw bytes should report changed=false")
	}
}

func TestUpdateStateDetectsChange(t *testing.T) {
	inv := New()
	inv.UpdateState(Zone, 5, []byte{0x00})
	changed, old, updated := inv.UpdateState(Zone, 5, []byte{0x01})
	if !changed {
		t.Fatal("expected changed=true")
	}
	if old.Flags["isOpen"] {
		t.Error("old state should not have isOpen set")
	}
	if !updated.Flags["isOpen"] {
		t.Error("new state should have isOpen set")
	}
}

func TestIsValidDefaultsTrueWithNoBitmap(t *testing.T) {
	inv := New()
	if !inv.IsValid(Area, 99) {
		t.Error("expected default-valid when no bitmap recorded")
	}
}

func TestIsValidHonoursBitmap(t *testing.T) {
	inv := New()
	inv.SetValid(Area, []int{1, 2, 3})
	if !inv.IsValid(Area, 2) {
		t.Error("expected area 2 to be valid")
	}
	if inv.IsValid(Area, 4) {
		t.Error("expected area 4 to be invalid")
	}
}

func TestSetNameSkipsEmpty(t *testing.T) {
	inv := New()
	inv.SetName(Zone, 1, "")
	if _, ok := inv.Name(Zone, 1); ok {
		t.Error("empty name should not be recorded")
	}
	inv.SetName(Zone, 1, "Front Door")
	if name, ok := inv.Name(Zone, 1); !ok || name != "Front Door" {
		t.Errorf("got %q ok=%v", name, ok)
	}
}

func TestZoneAreas(t *testing.T) {
	inv := New()
	inv.SetZoneAreas(7, []int{1, 2})
	areas := inv.ZoneAreas(7)
	if len(areas) != 2 {
		t.Fatalf("got %d areas, want 2", len(areas))
	}
}
