package iterators

import (
	"fmt"
	"strings"
)

// Level is an iterator capability level. The set is closed: Output and
// Input are independent minimal tiers, Forward refines both, and each level
// above Forward refines the one below it.
type Level int

const (
	// LevelOutput iterators can be written through and incremented
	LevelOutput Level = iota
	// LevelInput iterators can be read through, incremented and compared
	LevelInput
	// LevelForward iterators are input and output iterators with a usable zero value
	LevelForward
	// LevelBidirectional iterators are forward iterators that can also step back
	LevelBidirectional
	// LevelRandomAccess iterators are bidirectional iterators with constant-time jumps
	LevelRandomAccess
)

var levelNames = [...]string{
	LevelOutput:        "output",
	LevelInput:         "input",
	LevelForward:       "forward",
	LevelBidirectional: "bidirectional",
	LevelRandomAccess:  "random access",
}

// String returns the lower-case level name
func (l Level) String() string {
	if l < LevelOutput || l > LevelRandomAccess {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// title is used at the start of diagnostics
func (l Level) title() string {
	s := l.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether l is one of the five capability levels
func (l Level) Valid() bool {
	return l >= LevelOutput && l <= LevelRandomAccess
}

// Satisfies reports whether an iterator of level l can be used where an
// iterator of level want is required.
func (l Level) Satisfies(want Level) bool {
	if !l.Valid() || !want.Valid() {
		return false
	}
	switch want {
	case LevelOutput:
		return l == LevelOutput || l >= LevelForward
	case LevelInput:
		return l >= LevelInput
	default:
		return l >= want
	}
}

// DefaultConstructible reports whether a facade of this level has a usable
// zero value.
func (l Level) DefaultConstructible() bool {
	return l >= LevelForward && l.Valid()
}

// Levels returns every capability level in ascending order
func Levels() []Level {
	return []Level{LevelOutput, LevelInput, LevelForward, LevelBidirectional, LevelRandomAccess}
}

// ParseLevel converts a level name such as "forward" or "random-access"
func ParseLevel(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	switch normalized {
	case "output":
		return LevelOutput, nil
	case "input":
		return LevelInput, nil
	case "forward":
		return LevelForward, nil
	case "bidirectional", "bidi":
		return LevelBidirectional, nil
	case "random access", "randomaccess":
		return LevelRandomAccess, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Tag is implemented by every core through one of the embeddable tag types
// below and declares the level the core targets.
type Tag interface {
	TargetLevel() Level
}

// OutputTag marks a core as targeting the Output level
type OutputTag struct{}

func (OutputTag) TargetLevel() Level { return LevelOutput }
func (OutputTag) outputLevel()       {}

// InputTag marks a core as targeting the Input level
type InputTag struct{}

func (InputTag) TargetLevel() Level { return LevelInput }
func (InputTag) inputLevel()        {}

// ForwardTag marks a core as targeting the Forward level. A forward core is
// also usable wherever an input or output core is.
type ForwardTag struct{}

func (ForwardTag) TargetLevel() Level { return LevelForward }
func (ForwardTag) outputLevel()       {}
func (ForwardTag) inputLevel()        {}
func (ForwardTag) forwardLevel()      {}

// BidirectionalTag marks a core as targeting the Bidirectional level
type BidirectionalTag struct{ ForwardTag }

func (BidirectionalTag) TargetLevel() Level  { return LevelBidirectional }
func (BidirectionalTag) bidirectionalLevel() {}

// RandomAccessTag marks a core as targeting the RandomAccess level
type RandomAccessTag struct{ BidirectionalTag }

func (RandomAccessTag) TargetLevel() Level { return LevelRandomAccess }
func (RandomAccessTag) randomAccessLevel() {}
