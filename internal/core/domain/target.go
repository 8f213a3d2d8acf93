package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Target identifies a GPU instruction-set generation as a (major, minor, step) triple.
type Target struct {
	Major int `yaml:"major" json:"major"`
	Minor int `yaml:"minor" json:"minor"`
	Step  int `yaml:"step" json:"step"`
}

var gfxPattern = regexp.MustCompile(`gfx([0-9a-fA-F]{3,})`)

// ParseGfx extracts the target from a gfx architecture name such as "gfx90a" or "gfx1100".
// The last character is the hexadecimal step, the one before it the minor version
// and everything before that the major version.
func ParseGfx(name string) (Target, error) {
	m := gfxPattern.FindStringSubmatch(name)
	if m == nil {
		return Target{}, zerr.With(zerr.Wrap(ErrInvalidTarget, "name does not match gfx pattern"), "name", name)
	}
	digits := m[1]

	step, err := strconv.ParseInt(digits[len(digits)-1:], 16, 64)
	if err != nil {
		return Target{}, zerr.With(zerr.Wrap(err, "invalid step"), "name", name)
	}
	minor, err := strconv.Atoi(digits[len(digits)-2 : len(digits)-1])
	if err != nil {
		return Target{}, zerr.With(zerr.Wrap(ErrInvalidTarget, "invalid minor version"), "name", name)
	}
	major, err := strconv.Atoi(digits[:len(digits)-2])
	if err != nil {
		return Target{}, zerr.With(zerr.Wrap(ErrInvalidTarget, "invalid major version"), "name", name)
	}

	return Target{Major: major, Minor: minor, Step: int(step)}, nil
}

// MustParseGfx is like ParseGfx but panics on error. Intended for tables and tests.
func MustParseGfx(name string) Target {
	t, err := ParseGfx(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TargetFromSlice converts a stored ISA list ([major, minor, step]) into a Target.
func TargetFromSlice(v []int) (Target, bool) {
	if len(v) != 3 {
		return Target{}, false
	}
	return Target{Major: v[0], Minor: v[1], Step: v[2]}, true
}

// Gfx returns the gfx architecture name of the target.
func (t Target) Gfx() string {
	return fmt.Sprintf("gfx%d%d%x", t.Major, t.Minor, t.Step)
}

// Slice returns the target as a [major, minor, step] list, the form stored in solution descriptors.
func (t Target) Slice() []int {
	return []int{t.Major, t.Minor, t.Step}
}

// String implements fmt.Stringer.
func (t Target) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t.Major, t.Minor, t.Step)
}

// Is reports whether the target matches any of the given targets.
func (t Target) Is(targets ...Target) bool {
	for _, o := range targets {
		if t == o {
			return true
		}
	}
	return false
}

type codename struct {
	gfx  string
	name string
}

// architectures is ordered; SwCodename scans it front to back.
var architectures = []codename{
	{"all", "_"},
	{"gfx000", "none"},
	{"gfx803", "r9nano"},
	{"gfx900", "vega10"},
	{"gfx906", "vega20"},
	{"gfx906:xnack+", "vega20"},
	{"gfx906:xnack-", "vega20"},
	{"gfx908", "arcturus"},
	{"gfx908:xnack+", "arcturus"},
	{"gfx908:xnack-", "arcturus"},
	{"gfx90a", "aldebaran"},
	{"gfx90a:xnack+", "aldebaran"},
	{"gfx90a:xnack-", "aldebaran"},
	{"gfx942", "aquavanjaram"},
	{"gfx942:xnack+", "aquavanjaram"},
	{"gfx942:xnack-", "aquavanjaram"},
	{"gfx1010", "navi10"},
	{"gfx1011", "navi12"},
	{"gfx1012", "navi14"},
	{"gfx1030", "navi21"},
	{"gfx1100", "navi31"},
	{"gfx1101", "navi32"},
	{"gfx1102", "navi33"},
	{"gfx1200", "gfx1200"},
	{"gfx1201", "gfx1201"},
}

// SwCodename returns the common software codename for a gfx name (e.g. gfx1100 -> navi31).
// An exact table entry wins; otherwise the first entry whose key contains the name is used.
func SwCodename(gfx string) (string, bool) {
	for _, a := range architectures {
		if a.gfx == gfx {
			return a.name, true
		}
	}
	if gfx == "" {
		return "", false
	}
	for _, a := range architectures {
		if strings.Contains(a.gfx, gfx) {
			return a.name, true
		}
	}
	return "", false
}
