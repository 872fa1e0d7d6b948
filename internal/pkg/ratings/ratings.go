// Package ratings holds the running-average arithmetic for resource ratings.
package ratings

import "errors"

// ErrOutOfRange is returned for a rating outside [Min, Max]
var ErrOutOfRange = errors.New("rating must be between 1 and 5")

const (
	Min = 1
	Max = 5
)

// Validate checks that r is an accepted star rating
func Validate(r int) error {
	if r < Min || r > Max {
		return ErrOutOfRange
	}
	return nil
}

// Fold adds rating r to an average built from count earlier ratings.
// The store applies the same formula in a single UPDATE.
func Fold(avg float64, count int, r int) (float64, int, error) {
	if err := Validate(r); err != nil {
		return avg, count, err
	}
	newCount := count + 1
	return (avg*float64(count) + float64(r)) / float64(newCount), newCount, nil
}
