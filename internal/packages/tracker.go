// Package packages derives multi-session package progress for a
// (client, service) pair from the historical set of completed appointments.
// It is a read-side annotation only: nothing here mutates stored state, and
// every value is recomputed from the full appointment set on each read.
package packages

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"agenda/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sessionPattern matches an integer followed by a session-unit token:
// "mao"/"maos" (hands) or "pe"/"pes" (feet), after normalization.
var sessionPattern = regexp.MustCompile(`(\d+)\s*(maos?|pes?)`)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeName(name string) string {
	lowered := strings.ToLower(name)
	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// Size returns the package size of a service, or 0 when the service is not
// tracked as a package. The explicit field is the source of truth; the name
// heuristic ("2 maos 2 pes" -> 4) is a documented fallback for legacy catalogs
// that encoded the bundle in the service name.
func Size(svc models.Service) int {
	if svc.PackageTotal > 1 {
		return svc.PackageTotal
	}

	name := normalizeName(svc.Name)
	if name == "" {
		return 0
	}

	total := 0
	for _, match := range sessionPattern.FindAllStringSubmatch(name, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		total += n
	}

	if total > 1 {
		return total
	}
	return 0
}

// CompletedCount counts completed appointments for the exact (client, service)
// pair across all time, not just the visible day or week.
func CompletedCount(clientID, serviceID string, appointments []models.Appointment) int {
	count := 0
	for _, appt := range appointments {
		if appt.Status != models.StatusCompleted {
			continue
		}
		if appt.ClientID == clientID && appt.ServiceID == serviceID {
			count++
		}
	}
	return count
}

// CycleProgress is the 1-based position of the most recent completed session
// within its package cycle: ((n-1) mod k) + 1, repeating across cycles.
func CycleProgress(completedCount, packageSize int) int {
	if packageSize <= 0 || completedCount <= 0 {
		return 0
	}
	return ((completedCount - 1) % packageSize) + 1
}

// CycleComplete reports whether the latest cycle has just been filled.
func CycleComplete(completedCount, packageSize int) bool {
	return packageSize > 0 && completedCount > 0 && completedCount%packageSize == 0
}
