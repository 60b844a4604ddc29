package safety

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/ports"
)

const (
	DetectorAllowList = "allow_list"
	DetectorRegex     = "regex"
)

// AllowListDetector never reports a match, it records the spans of benign
// domain phrases. Later detectors drop a match only when it sits entirely
// inside one of those spans.
type AllowListDetector struct {
	patterns []*regexp.Regexp
}

var _ ports.Detector = (*AllowListDetector)(nil)

// NewAllowListDetector compiles extra patterns on top of the built in list
func NewAllowListDetector(extra []string) (*AllowListDetector, error) {
	patterns := make([]*regexp.Regexp, 0, len(defaultAllowList)+len(extra))
	patterns = append(patterns, defaultAllowList...)

	for _, expr := range extra {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid allow-list pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return &AllowListDetector{patterns: patterns}, nil
}

func (d *AllowListDetector) Name() string {
	return DetectorAllowList
}

func (d *AllowListDetector) Detect(_ context.Context, req *ports.DetectionRequest) ports.Finding {
	for _, re := range d.patterns {
		for _, loc := range re.FindAllStringIndex(req.Text, -1) {
			req.Allowed = append(req.Allowed, ports.Span{Start: loc[0], End: loc[1]})
		}
	}
	return ports.Finding{}
}

// RegexDetector checks the named injection families in order
type RegexDetector struct {
	families []patternFamily
}

var _ ports.Detector = (*RegexDetector)(nil)

func NewRegexDetector() *RegexDetector {
	return &RegexDetector{families: defaultFamilies}
}

func (d *RegexDetector) Name() string {
	return DetectorRegex
}

func (d *RegexDetector) Detect(_ context.Context, req *ports.DetectionRequest) ports.Finding {
	for _, family := range d.families {
		for _, re := range family.patterns {
			if matchOutsideAllowed(re, req) {
				return ports.Finding{
					Detector:   DetectorRegex,
					Family:     family.name,
					Reason:     fmt.Sprintf("matched %s pattern: %s", family.name, family.reason),
					Confidence: constants.ConfidenceRegexMatch,
					Matched:    true,
				}
			}
		}
	}
	return ports.Finding{}
}

// matchOutsideAllowed looks for a match not fully covered by an allowed span.
// After a covered match the scan resumes one rune past its start, so a longer
// match beginning inside a benign phrase is still found.
func matchOutsideAllowed(re *regexp.Regexp, req *ports.DetectionRequest) bool {
	if len(req.Allowed) == 0 {
		return re.MatchString(req.Text)
	}

	for pos := 0; pos <= len(req.Text); {
		loc := re.FindStringIndex(req.Text[pos:])
		if loc == nil {
			return false
		}
		start, end := pos+loc[0], pos+loc[1]
		if !req.Covers(start, end) {
			return true
		}
		if start >= len(req.Text) {
			return false
		}
		_, size := utf8.DecodeRuneInString(req.Text[start:])
		pos = start + size
	}
	return false
}

// Families lists the family names in evaluation order
func (d *RegexDetector) Families() []string {
	names := make([]string, 0, len(d.families))
	for _, f := range d.families {
		names = append(names, f.name)
	}
	return names
}
