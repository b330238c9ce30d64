package cellgen

import (
	"strings"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
)

// PickMethod is the policy Growth uses to choose among candidate cells.
type PickMethod int

const (
	PickPreferCloser PickMethod = iota
	PickClosest
	PickRandom
)

// DefaultPickMethod is used when no pick method is requested.
const DefaultPickMethod = PickPreferCloser

var pickMethodNames = map[PickMethod]string{
	PickPreferCloser: "prefer closer",
	PickClosest:      "closest",
	PickRandom:       "random",
}

// PickMethods lists every pick method.
var PickMethods = []PickMethod{PickRandom, PickClosest, PickPreferCloser}

func (m PickMethod) String() string {
	if s, ok := pickMethodNames[m]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m PickMethod) MarshalText() ([]byte, error) {
	if _, ok := pickMethodNames[m]; !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidPickMethod, "unknown pick method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PickMethod) UnmarshalText(b []byte) error {
	v, err := ParsePickMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParsePickMethod parses "random", "closest" or "prefer closer". Dashes and
// underscores are accepted in place of the space and the empty string
// selects [DefaultPickMethod].
func ParsePickMethod(s string) (PickMethod, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	if norm == "" {
		return DefaultPickMethod, nil
	}
	for m, name := range pickMethodNames {
		if name == norm {
			return m, nil
		}
	}
	return 0, apperr.New(apperr.ErrCodeInvalidPickMethod,
		"unknown pick method %q (want random, closest or prefer closer)", s)
}

// Method selects the generator.
type Method int

const (
	MethodGrowth Method = iota
	MethodNaive
)

// DefaultMethod is used when no method is requested.
const DefaultMethod = MethodGrowth

// Methods lists every generator method.
var Methods = []Method{MethodGrowth, MethodNaive}

func (m Method) String() string {
	switch m {
	case MethodGrowth:
		return "growth"
	case MethodNaive:
		return "naive"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m != MethodGrowth && m != MethodNaive {
		return nil, apperr.New(apperr.ErrCodeInvalidMethod, "unknown method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMethod parses "growth" or "naive". The empty string selects
// [DefaultMethod].
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "growth":
		return MethodGrowth, nil
	case "naive":
		return MethodNaive, nil
	}
	return 0, apperr.New(apperr.ErrCodeInvalidMethod, "unknown method %q (want growth or naive)", s)
}
