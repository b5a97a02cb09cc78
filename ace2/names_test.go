package ace2

import "testing"

func TestSplitNamePageStandard(t *testing.T) {
	body := make([]byte, 2+16*2)
	copy(body[2:], []byte("Front Door\x00\x00\x00\x00\x00\x00"))
	copy(body[18:], []byte("Garage\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	names := splitNamePage(body, 16, 2)
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	if names[0] != "Front Door" {
		t.Errorf("got %q, want %q", names[0], "Front Door")
	}
	if names[1] != "Garage" {
		t.Errorf("got %q, want %q", names[1], "Garage")
	}
}

func TestSplitNamePageTruncatedPageStopsEarly(t *testing.T) {
	body := make([]byte, 2+16) // room for exactly one slot
	names := splitNamePage(body, 16, 4)
	if len(names) != 1 {
		t.Fatalf("got %d names, want 1", len(names))
	}
}

func TestAllEmptyFullPageOfBlankSlotsStopsPagination(t *testing.T) {
	body := make([]byte, 2+16*4) // a full, physically-valid page of 4 blank slots
	names := splitNamePage(body, 16, 4)
	if len(names) != 4 {
		t.Fatalf("got %d names, want 4", len(names))
	}
	if !allEmpty(names) {
		t.Error("expected a page of all-NUL slots to read as all-empty")
	}
}

func TestAllEmptyFalseWhenAnyNameIsSet(t *testing.T) {
	body := make([]byte, 2+16*4)
	copy(body[2:], []byte("Garage\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	names := splitNamePage(body, 16, 4)
	if allEmpty(names) {
		t.Error("expected a page with one named slot to not read as all-empty")
	}
}

func TestSequentialRange(t *testing.T) {
	got := sequentialRange(3, 4)
	want := []int{3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
