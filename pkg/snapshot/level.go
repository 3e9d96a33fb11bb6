package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Well-known levels from the RIFT topology schema.
const (
	LeafLevel        = 0
	TopOfFabricLevel = 24
)

// Level is a RIFT hierarchy level. The zero value is the undefined level.
type Level struct {
	value   int
	defined bool
}

// Undefined is the level of a node that has neither been configured nor
// derived one.
var Undefined = Level{}

// LevelOf returns the defined level v.
func LevelOf(v int) Level {
	return Level{value: v, defined: true}
}

// IsDefined reports whether the level carries a value.
func (l Level) IsDefined() bool { return l.defined }

// Value returns the numeric level and whether it is defined.
func (l Level) Value() (int, bool) { return l.value, l.defined }

// Compare orders two defined levels numerically. ok is false when either
// side is undefined, in which case the levels are not comparable.
func (l Level) Compare(o Level) (cmp int, ok bool) {
	if !l.defined || !o.defined {
		return 0, false
	}
	switch {
	case l.value < o.value:
		return -1, true
	case l.value > o.value:
		return 1, true
	}
	return 0, true
}

// String returns the decimal level or "undefined".
func (l Level) String() string {
	if !l.defined {
		return "undefined"
	}
	return strconv.Itoa(l.value)
}

// MarshalJSON encodes a defined level as a number and undefined as null.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.defined {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(l.value)), nil
}

// UnmarshalJSON accepts every level spelling found in snapshot dumps:
//   - a non-negative integer
//   - null, "undefined" or "Undefined"
//   - the named levels "leaf", "leaf-to-leaf" and "top-of-fabric"
//   - the tagged form {"Value": n}
func (l *Level) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lvl, err := parseLevel(raw)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// MarshalYAML encodes a defined level as an integer and undefined as null.
func (l Level) MarshalYAML() (any, error) {
	if !l.defined {
		return nil, nil
	}
	return l.value, nil
}

// UnmarshalYAML accepts the same spellings as [Level.UnmarshalJSON].
func (l *Level) UnmarshalYAML(n *yaml.Node) error {
	var raw any
	if err := n.Decode(&raw); err != nil {
		return err
	}
	lvl, err := parseLevel(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*l = lvl
	return nil
}

func parseLevel(raw any) (Level, error) {
	switch v := raw.(type) {
	case nil:
		return Undefined, nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			return Undefined, fmt.Errorf("invalid level %v: must be a non-negative integer", v)
		}
		return LevelOf(int(v)), nil
	case int:
		if v < 0 {
			return Undefined, fmt.Errorf("invalid level %d: must be non-negative", v)
		}
		return LevelOf(v), nil
	case int64:
		if v < 0 || v > math.MaxInt32 {
			return Undefined, fmt.Errorf("invalid level %d: out of range", v)
		}
		return LevelOf(int(v)), nil
	case uint64:
		if v > math.MaxInt32 {
			return Undefined, fmt.Errorf("invalid level %d: out of range", v)
		}
		return LevelOf(int(v)), nil
	case string:
		return parseNamedLevel(v)
	case map[string]any:
		if inner, ok := v["Value"]; ok && len(v) == 1 {
			return parseLevel(inner)
		}
	}
	return Undefined, fmt.Errorf("invalid level %v", raw)
}

func parseNamedLevel(s string) (Level, error) {
	switch s {
	case "undefined", "Undefined":
		return Undefined, nil
	case "leaf", "leaf-to-leaf":
		return LevelOf(LeafLevel), nil
	case "top-of-fabric":
		return LevelOf(TopOfFabricLevel), nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return LevelOf(n), nil
	}
	return Undefined, fmt.Errorf("invalid level %q", s)
}
