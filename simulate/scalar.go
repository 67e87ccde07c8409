package simulate

import (
	"fmt"

	"github.com/jonwraymond/calcops/numeric"
)

// Force computes F = m * a.
func Force(mass, accel float64) (float64, error) {
	if !numeric.IsFinite(mass) || mass < 0 {
		return 0, fmt.Errorf("%w: mass must be finite and non-negative", ErrInvalidParam)
	}
	if !numeric.IsFinite(accel) {
		return 0, fmt.Errorf("%w: acceleration must be finite", ErrInvalidParam)
	}
	f := mass * accel
	if !numeric.IsFinite(f) {
		return 0, &OverflowError{Model: "force", Step: 0, LastValid: -1}
	}
	return f, nil
}

// ElectricField computes E = k * q / r^2.
func ElectricField(charge, distance float64) (float64, error) {
	if !numeric.IsFinite(charge) {
		return 0, fmt.Errorf("%w: charge must be finite", ErrInvalidParam)
	}
	if !numeric.IsFinite(distance) || distance <= 0 {
		return 0, fmt.Errorf("%w: distance must be finite and positive", ErrInvalidParam)
	}
	e := CoulombConstant * charge / (distance * distance)
	if !numeric.IsFinite(e) {
		return 0, &OverflowError{Model: "electric_field", Step: 0, LastValid: -1}
	}
	return e, nil
}
