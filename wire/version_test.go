package wire

import "testing"

func TestParseProtocolVersion(t *testing.T) {
	cases := []struct {
		firmware string
		want     int
		ok       bool
	}{
		{"MR_4.1.38741", 4001, true},
		{"MR_22.3.0", 22, true},
		{"GARBAGE", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseProtocolVersion(c.firmware)
		if ok != c.ok {
			t.Errorf("ParseProtocolVersion(%q): ok=%v, want %v", c.firmware, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseProtocolVersion(%q) = %d, want %d", c.firmware, got, c.want)
		}
	}
}
