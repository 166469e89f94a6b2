package record

import "strings"

// Filter restricts a record set by respondent background. Each field lists the
// accepted values for one questionnaire answer; an empty list accepts
// anything. A record matches when it satisfies every non-empty field.
type Filter struct {
	Age            []string `json:"age,omitempty" yaml:"age,omitempty" jsonschema:"description=Accepted age brackets"`
	Gender         []string `json:"gender,omitempty" yaml:"gender,omitempty" jsonschema:"description=Accepted genders"`
	NonNative      []string `json:"nonNative,omitempty" yaml:"nonNative,omitempty" jsonschema:"description=Accepted native-speaker answers"`
	LevelEducation []string `json:"levelEducation,omitempty" yaml:"levelEducation,omitempty" jsonschema:"description=Accepted education levels; a respondent matches if any of theirs is listed"`
}

// Empty reports whether the filter accepts every record.
func (f Filter) Empty() bool {
	return len(f.Age) == 0 && len(f.Gender) == 0 && len(f.NonNative) == 0 && len(f.LevelEducation) == 0
}

// Match reports whether r passes the filter. Comparison ignores case and
// surrounding whitespace.
func (f Filter) Match(r Record) bool {
	pi := r.PersonalInformation
	if !accepts(f.Age, pi.Age) || !accepts(f.Gender, pi.Gender) || !accepts(f.NonNative, pi.NonNative) {
		return false
	}
	if len(f.LevelEducation) == 0 {
		return true
	}
	for _, level := range pi.LevelEducation {
		if accepts(f.LevelEducation, level) {
			return true
		}
	}
	return false
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []Record) []Record {
	if f.Empty() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func accepts(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), value) {
			return true
		}
	}
	return false
}
