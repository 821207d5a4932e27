package validation

// AvailableSeats is capacity minus sold tickets. A negative result means
// the flight is overbooked and is returned as is.
func AvailableSeats(capacity, sold int) int {
	return capacity - sold
}
