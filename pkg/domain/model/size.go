package model

import (
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// ExportSizeEstimate is reported for exported native Google files because
// Drive does not declare the size of an export before it is rendered.
const ExportSizeEstimate int64 = 1024 * 1024

// FormatBytes returns a human-readable size such as "1.5 KB" or "1 MB".
// Zero is formatted as "0 Bytes".
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	// 1023.999 KB rounds up to 1024 KB; carry into the next unit.
	if rounded >= 1024 && unit < len(byteUnits)-1 {
		rounded = math.Round(rounded/1024*100) / 100
		unit++
	}

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}
