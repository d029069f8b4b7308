package model

import "strings"

// Choices is a closed set of allowed string values for a classification field.
type Choices []string

// Contains reports whether v is one of the allowed values.
func (c Choices) Contains(v string) bool {
	for _, allowed := range c {
		if allowed == v {
			return true
		}
	}
	return false
}

// String lists the allowed values, comma separated.
func (c Choices) String() string {
	return strings.Join(c, ", ")
}

var (
	MovementTypes = Choices{"push", "pull", "squat", "hinge", "carry", "other"}
	MuscleGroups  = Choices{"chest", "back", "shoulders", "arms", "legs", "core", "full_body", "other"}
	Equipment     = Choices{"barbell", "dumbbell", "cable", "machine", "bodyweight", "kettlebell", "other"}
	Difficulties  = Choices{"beginner", "intermediate", "advanced"}
	EnergyLevels  = Choices{"very_low", "low", "medium", "high", "very_high"}
	Genders       = Choices{"male", "female", "other"}
)
