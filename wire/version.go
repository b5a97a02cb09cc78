package wire

import (
	"strconv"
	"strings"
)

// ParseProtocolVersion derives the integer protocol version from a firmware
// string of the form "PREFIX_major.minor.build". It returns false if the
// firmware string doesn't match that shape.
//
// If major <= 21 the version is major*1000 + minor (e.g. "MR_4.1.38741" ->
// 4001); otherwise the version is simply major (e.g. "MR_22.3.0" -> 22).
func ParseProtocolVersion(firmware string) (int, bool) {
	us := strings.LastIndexByte(firmware, '_')
	rest := firmware
	if us >= 0 {
		rest = firmware[us+1:]
	}

	parts := strings.Split(rest, ".")
	if len(parts) < 2 {
		return 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	if major <= 21 {
		return major*1000 + minor, true
	}
	return major, true
}
