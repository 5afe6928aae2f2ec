// helpers/timestamps.go
package helpers

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// vendorTimestamp matches a timestamp carrying one to three fractional-second digits, e.g.
// 2023-01-01T10:00:00.5+00:00. Jamf trims trailing zeros from the fraction.
var vendorTimestamp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})\.(\d{1,3})(Z|[+-]\d{2}:\d{2})$`)

// NormalizeFractionalSeconds right-pads the fractional seconds of a timestamp to exactly three
// digits. Date, time and offset are kept as they are. Timestamps with no fraction, or with
// more than three fractional digits, are returned unchanged.
func NormalizeFractionalSeconds(ts string) string {
	parts := vendorTimestamp.FindStringSubmatch(ts)
	if parts == nil {
		return ts
	}
	fraction := parts[2] + strings.Repeat("0", 3-len(parts[2]))
	return fmt.Sprintf("%s.%s%s", parts[1], fraction, parts[3])
}

// ParseVendorTimestamp normalizes ts and parses it as RFC 3339.
func ParseVendorTimestamp(ts string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, NormalizeFractionalSeconds(ts))
}
