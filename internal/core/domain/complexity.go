package domain

import (
	"fmt"
	"strings"
)

type ComplexityTier int

const (
	TierSimple ComplexityTier = iota
	TierMedium
	TierComplex
)

const (
	TierStringSimple  = "simple"
	TierStringMedium  = "medium"
	TierStringComplex = "complex"
)

var AllTiers = []ComplexityTier{TierSimple, TierMedium, TierComplex}

func (t ComplexityTier) String() string {
	switch t {
	case TierSimple:
		return TierStringSimple
	case TierMedium:
		return TierStringMedium
	case TierComplex:
		return TierStringComplex
	default:
		return "unknown"
	}
}

func ParseComplexityTier(s string) (ComplexityTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TierStringSimple:
		return TierSimple, nil
	case TierStringMedium, "":
		return TierMedium, nil
	case TierStringComplex:
		return TierComplex, nil
	default:
		return TierMedium, fmt.Errorf("unknown complexity tier %q", s)
	}
}

func (t ComplexityTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ComplexityTier) UnmarshalText(text []byte) error {
	parsed, err := ParseComplexityTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ComplexityVerdict is computed fresh per message, confidence is always populated
type ComplexityVerdict struct {
	Rule       string         `json:"rule"`
	Tier       ComplexityTier `json:"tier"`
	Confidence float64        `json:"confidence"`
}
