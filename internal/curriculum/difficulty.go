package curriculum

import "slices"

// Difficulty is a rung on the ordered difficulty ladder.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var ladder = []Difficulty{Beginner, Intermediate, Advanced}

// AllDifficulties returns the ladder from easiest to hardest.
func AllDifficulties() []Difficulty {
	return slices.Clone(ladder)
}

// ParseDifficulty returns the difficulty with the given name.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(s)
	return d, d.Valid()
}

// Valid reports whether d is on the ladder.
func (d Difficulty) Valid() bool {
	return slices.Contains(ladder, d)
}

// Rank returns the ladder position (0 for beginner), or -1 if d is unknown.
func (d Difficulty) Rank() int {
	return slices.Index(ladder, d)
}

// Promote returns the next harder level, clamped at the top of the ladder.
// Unknown values are treated as beginner.
func (d Difficulty) Promote() Difficulty {
	i := max(d.Rank(), 0)
	return ladder[min(i+1, len(ladder)-1)]
}

// Demote returns the next easier level, clamped at the bottom of the ladder.
func (d Difficulty) Demote() Difficulty {
	i := max(d.Rank(), 0)
	return ladder[max(i-1, 0)]
}

// Label returns the capitalized name, e.g. "Intermediate".
func (d Difficulty) Label() string {
	return titleWords(string(d))
}

func (d Difficulty) String() string {
	return string(d)
}
