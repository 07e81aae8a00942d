package snapshot

import "time"

// dateLayout yields one name per calendar day, so a second run on the same
// day targets the snapshot the first run created.
const dateLayout = "20060102"

// NewName builds the name of the snapshot taken of origin at now.
func NewName(origin Volume, separator string, now time.Time) string {
	return origin.Name + separator + now.Local().Format(dateLayout)
}
