package fins

import "time"

// decodeClockReply decodes a Clock Read reply body: 6 BCD bytes for
// year/month/day/hour/minute/second followed by a day-of-week byte,
// matching the packed-BCD layout used elsewhere on the wire.
func decodeClockReply(body []byte) (*time.Time, error) {
	if len(body) < 7 {
		return nil, ProtocolError{Reason: "clock reply body too short"}
	}

	year, err := decodeBCD(body[0], "year")
	if err != nil {
		return nil, err
	}
	month, err := decodeBCD(body[1], "month")
	if err != nil {
		return nil, err
	}
	day, err := decodeBCD(body[2], "day")
	if err != nil {
		return nil, err
	}
	hour, err := decodeBCD(body[3], "hour")
	if err != nil {
		return nil, err
	}
	minute, err := decodeBCD(body[4], "minute")
	if err != nil {
		return nil, err
	}
	second, err := decodeBCD(body[5], "second")
	if err != nil {
		return nil, err
	}

	fullYear := 2000 + int(year)
	t := time.Date(fullYear, time.Month(month), int(day), int(hour), int(minute), int(second), 0, time.UTC)
	return &t, nil
}

// decodeBCD decodes one packed-BCD byte (two 4-bit decimal digits) into
// its decimal value, failing if either nibble is not 0..9.
func decodeBCD(b byte, field string) (uint64, error) {
	hi, lo := b>>4, b&0x0F
	if hi > 9 {
		return 0, BCDBadDigitError{Nibble: field + " high", Value: uint64(hi)}
	}
	if lo > 9 {
		return 0, BCDBadDigitError{Nibble: field + " low", Value: uint64(lo)}
	}
	return timesTenPlusCatchingOverflow(uint64(hi), uint64(lo))
}

// timesTenPlusCatchingOverflow computes hi*10+lo, guarding against the
// uint64 overflow that a malformed multi-byte BCD accumulation could
// otherwise wrap silently.
func timesTenPlusCatchingOverflow(hi, lo uint64) (uint64, error) {
	const maxBeforeOverflow = (1<<64 - 1) / 10
	if hi > maxBeforeOverflow {
		return 0, BCDOverflowError{}
	}
	v := hi*10 + lo
	if v < hi {
		return 0, BCDOverflowError{}
	}
	return v, nil
}

// encodeClock encodes t as a 7-byte Clock Read-shaped body, used by
// tests and by any future Clock Write support.
func encodeClock(t time.Time) []byte {
	t = t.UTC()
	return []byte{
		encodeBCD(uint64(t.Year() % 100)),
		encodeBCD(uint64(t.Month())),
		encodeBCD(uint64(t.Day())),
		encodeBCD(uint64(t.Hour())),
		encodeBCD(uint64(t.Minute())),
		encodeBCD(uint64(t.Second())),
		byte(t.Weekday()),
	}
}

func encodeBCD(v uint64) byte {
	return byte((v/10%10)<<4 | v%10)
}
