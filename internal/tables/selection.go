// Package tables selects and caches the conversion tables for each Anu
// version and direction.
package tables

import (
	"fmt"
	"strings"
)

// Version identifies a revision of the Anu glyph encoding.
type Version int

const (
	Anu6 Version = 6
	Anu7 Version = 7
)

// Versions lists the supported revisions.
var Versions = []Version{Anu6, Anu7}

func (v Version) String() string {
	switch v {
	case Anu6:
		return "anu6"
	case Anu7:
		return "anu7"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// ParseVersion accepts "6", "anu6", "anu 6.0" and similar spellings.
func ParseVersion(s string) (Version, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimPrefix(norm, "anu")
	norm = strings.TrimSpace(strings.TrimPrefix(norm, "-"))
	norm = strings.TrimSuffix(norm, ".0")

	switch norm {
	case "6":
		return Anu6, nil
	case "7":
		return Anu7, nil
	}
	return 0, fmt.Errorf("unknown anu version %q", s)
}

// Direction says which way a table converts.
type Direction int

const (
	AnuToUnicode Direction = iota
	UnicodeToAnu
)

// Directions lists both conversion directions.
var Directions = []Direction{AnuToUnicode, UnicodeToAnu}

func (d Direction) String() string {
	switch d {
	case AnuToUnicode:
		return "anu_to_unicode"
	case UnicodeToAnu:
		return "unicode_to_anu"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == AnuToUnicode {
		return UnicodeToAnu
	}
	return AnuToUnicode
}

// ParseDirection accepts the canonical names and the a2u/u2a shorthands.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anu_to_unicode", "anu-to-unicode", "a2u":
		return AnuToUnicode, nil
	case "unicode_to_anu", "unicode-to-anu", "u2a":
		return UnicodeToAnu, nil
	}
	return 0, fmt.Errorf("unknown conversion direction %q", s)
}

// Selection names one of the four conversion tables.
type Selection struct {
	Version   Version
	Direction Direction
}

// ParseSelection parses a version and a direction together.
func ParseSelection(version, direction string) (Selection, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return Selection{}, err
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Version: v, Direction: d}, nil
}

// All returns the four selections in a stable order.
func All() []Selection {
	var sels []Selection
	for _, v := range Versions {
		for _, d := range Directions {
			sels = append(sels, Selection{Version: v, Direction: d})
		}
	}
	return sels
}

// Swap returns the selection converting the other way for the same version.
func (s Selection) Swap() Selection {
	return Selection{Version: s.Version, Direction: s.Direction.Reverse()}
}

// AssetName is the base name, without extension, of the selection's mapping
// asset: anu6_to_unicode, unicode_to_anu6, anu7_to_unicode, unicode_to_anu7.
func (s Selection) AssetName() string {
	if s.Direction == UnicodeToAnu {
		return "unicode_to_" + s.Version.String()
	}
	return s.Version.String() + "_to_unicode"
}

func (s Selection) String() string {
	return s.Version.String() + "/" + s.Direction.String()
}
