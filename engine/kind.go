package engine

// Kind enumerates the supported calculation kinds.
type Kind int

const (
	KindForce Kind = iota
	KindPotentialEnergy
	KindElectricField
	KindFibonacciForce
	KindFluidFlow
	KindGravWave
)

var kindNames = map[Kind]string{
	KindForce:           "force",
	KindPotentialEnergy: "potential_energy",
	KindElectricField:   "electric_field",
	KindFibonacciForce:  "fibonacci_force",
	KindFluidFlow:       "fluid_flow",
	KindGravWave:        "gravitational_wave",
}

// String returns the kind's stable name, used in cache keys, spans, and
// metrics attributes.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is a known calculation kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}
