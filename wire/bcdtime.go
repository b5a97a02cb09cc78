package wire

import "time"

// DecodeBCDTime decodes the panel's 6-byte BCD timestamp (YY MM DD hh mm ss,
// each byte holding two decimal digits packed into its hex representation)
// into a local time.Time in the 21st century.
func DecodeBCDTime(b [6]byte) time.Time {
	yy := bcd(b[0])
	mm := bcd(b[1])
	dd := bcd(b[2])
	hh := bcd(b[3])
	mi := bcd(b[4])
	ss := bcd(b[5])
	return time.Date(2000+yy, time.Month(mm), dd, hh, mi, ss, 0, time.Local)
}

func bcd(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// EncodeBCDTime is the inverse of DecodeBCDTime, for tests and for control
// messages that carry a timestamp field.
func EncodeBCDTime(t time.Time) [6]byte {
	return [6]byte{
		toBCD(t.Year() % 100),
		toBCD(int(t.Month())),
		toBCD(t.Day()),
		toBCD(t.Hour()),
		toBCD(t.Minute()),
		toBCD(t.Second()),
	}
}

func toBCD(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}
