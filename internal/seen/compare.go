package seen

import (
	"strings"

	"github.com/jimezsa/jobsweep/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for A-B unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for seen history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

// InvalidSkipped returns the total invalid records skipped during merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize applies the v1 key normalization.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the normalized designation+company key for a listing.
// Listings missing either field have no key.
func Key(listing models.Listing) (string, bool) {
	title := Normalize(models.Value(listing.Designation))
	company := Normalize(models.Value(listing.Company))
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company, true
}

// Diff returns the listings in fresh whose key is not in history.
func Diff(fresh []models.Listing, history []models.Listing) ([]models.Listing, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(fresh),
		TotalSeen: len(history),
	}

	seenKeys := make(map[string]struct{}, len(history))
	for _, listing := range history {
		key, ok := Key(listing)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(fresh))
	unseen := make([]models.Listing, 0, len(fresh))
	for _, listing := range fresh {
		key, ok := Key(listing)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, listing)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends listings with new keys to the seen history.
// Existing seen entries win collisions.
func Merge(existing []models.Listing, input []models.Listing) ([]models.Listing, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(existing),
		TotalInput: len(input),
	}

	keys := make(map[string]struct{}, len(existing)+len(input))
	out := make([]models.Listing, 0, len(existing)+len(input))

	for _, listing := range existing {
		key, ok := Key(listing)
		if !ok {
			stats.InvalidSeen++
			out = append(out, listing)
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, listing)
	}

	for _, listing := range input {
		key, ok := Key(listing)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, listing)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
