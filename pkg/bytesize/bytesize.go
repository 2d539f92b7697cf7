// Package bytesize renders byte counts in a human-readable form, in either
// binary (KiB, 1024-based) or decimal (KB, 1000-based) units.
package bytesize

import "fmt"

// Base selects the unit system used to scale a byte count.
type Base int

const (
	// Binary scales by powers of 1024 and uses IEC suffixes (KiB, MiB, ...).
	Binary Base = iota

	// Decimal scales by powers of 1000 and uses SI suffixes (KB, MB, ...).
	Decimal
)

const (
	KiB uint64 = 1024
	MiB        = 1024 * KiB
	GiB        = 1024 * MiB
	TiB        = 1024 * GiB
	PiB        = 1024 * TiB
	EiB        = 1024 * PiB

	KB uint64 = 1000
	MB        = 1000 * KB
	GB        = 1000 * MB
	TB        = 1000 * GB
	PB        = 1000 * TB
	EB        = 1000 * PB
)

type unit struct {
	divisor uint64
	suffix  string
}

// Largest unit first; uint64 tops out below a full zettabyte.
var (
	binaryUnits = []unit{
		{EiB, "EiB"}, {PiB, "PiB"}, {TiB, "TiB"}, {GiB, "GiB"}, {MiB, "MiB"}, {KiB, "KiB"},
	}
	decimalUnits = []unit{
		{EB, "EB"}, {PB, "PB"}, {TB, "TB"}, {GB, "GB"}, {MB, "MB"}, {KB, "KB"},
	}
)

// Normalize scales size down to the largest unit of the base that fits and
// returns the scaled value with its suffix. Sizes below one kilobyte come
// back unscaled with the suffix "bytes".
func Normalize(size uint64, base Base) (float64, string) {
	units := binaryUnits
	if base == Decimal {
		units = decimalUnits
	}

	for _, u := range units {
		if size >= u.divisor {
			return float64(size) / float64(u.divisor), u.suffix
		}
	}
	return float64(size), "bytes"
}

// Format renders size as a string with two decimal places, such as
// "1.50 MiB" or "953.67 KB".
func Format(size uint64, base Base) string {
	value, suffix := Normalize(size, base)
	return fmt.Sprintf("%.2f %s", value, suffix)
}
