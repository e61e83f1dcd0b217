package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

const appointmentIDPrefix = "APT"

// NextAppointmentID returns the identifier that follows last in the
// human-readable APT sequence. An empty last starts the sequence at APT0001.
// Suffixes are zero-padded to four digits; past 9999 the identifier simply
// widens, it never wraps or resets.
func NextAppointmentID(last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s%04d", appointmentIDPrefix, 1), nil
	}

	suffix, ok := strings.CutPrefix(last, appointmentIDPrefix)
	if !ok {
		return "", fmt.Errorf("malformed appointment id %q", last)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return "", fmt.Errorf("malformed appointment id %q", last)
	}

	return fmt.Sprintf("%s%04d", appointmentIDPrefix, n+1), nil
}
