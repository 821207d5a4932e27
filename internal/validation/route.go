package validation

import "github.com/Domenick1991/airport/internal/domain"

// ValidateRoute rejects routes that start and end at the same airport.
func ValidateRoute(sourceID, destinationID int64) error {
	if sourceID == destinationID {
		return domain.NewValidationError(domain.KindInvalidRoute, "destination",
			"Source and destination airports must be different.")
	}
	return nil
}
