package models

// Record represents a single synthetic dataset entry.
type Record struct {
	ID     int         // ID is derived from the record position, unique within a run.
	Label  string      // Label is derived from the record position.
	Coords Coordinates // Coords is a uniformly sampled point.
}
