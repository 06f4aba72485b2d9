package domain

import "fmt"

// Level is the target expertise level for a summary.
type Level string

// Allowed summarization levels.
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

// DefaultLevel is used when a request does not specify a level.
const DefaultLevel = LevelIntermediate

// ParseLevel validates a level string. An empty string maps to
// DefaultLevel; anything else unknown is ErrInvalidInput.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBeginner, LevelIntermediate, LevelExpert:
		return Level(s), nil
	case "":
		return DefaultLevel, nil
	default:
		return "", fmt.Errorf("%w: invalid summarization level %q", ErrInvalidInput, s)
	}
}

// Valid reports whether the level is one of the allowed values.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}
