package shape

import (
	"strings"
)

// Validity holds one flag per questionnaire field; true means the field is
// acceptable. The capture layer hands it back to the caller so each invalid
// field can be marked individually.
type Validity struct {
	Name            bool `json:"name"`
	Associations    bool `json:"associations"`
	Correctness     bool `json:"correctness"`
	Friendliness    bool `json:"friendliness"`
	Pleasantness    bool `json:"pleasantness"`
	Trustworthiness bool `json:"trustworthiness"`
}

// Valid reports whether every field is acceptable.
func (v Validity) Valid() bool {
	return v.Name && v.Associations && v.Correctness && v.Friendliness &&
		v.Pleasantness && v.Trustworthiness
}

// Invalid lists the names of the fields that failed.
func (v Validity) Invalid() []string {
	var out []string
	if !v.Name {
		out = append(out, "name")
	}
	if !v.Associations {
		out = append(out, "associations")
	}
	for _, m := range Metrics() {
		if !v.metric(m) {
			out = append(out, m.String())
		}
	}
	return out
}

func (v Validity) metric(m Metric) bool {
	switch m {
	case Correctness:
		return v.Correctness
	case Friendliness:
		return v.Friendliness
	case Pleasantness:
		return v.Pleasantness
	case Trustworthiness:
		return v.Trustworthiness
	}
	return false
}

// ValidRating reports whether r lies on the 1–5 scale. Zero means "not set".
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Validate checks the questionnaire:
//   - name must not be blank
//   - between 1 and 5 associations, none blank
//   - all four scales set to a value between 1 and 5
//
// The sound example is optional.
func (md Metadata) Validate() Validity {
	return Validity{
		Name:            strings.TrimSpace(md.Name) != "",
		Associations:    validAssociations(md.Associations),
		Correctness:     ValidRating(md.Correctness),
		Friendliness:    ValidRating(md.Friendliness),
		Pleasantness:    ValidRating(md.Pleasantness),
		Trustworthiness: ValidRating(md.Trustworthiness),
	}
}

func validAssociations(as []string) bool {
	if len(as) < MinAssociations || len(as) > MaxAssociations {
		return false
	}
	for _, a := range as {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}

// ValidationError rejects incomplete metadata. It carries the per-field flags.
type ValidationError struct {
	Validity Validity
}

func (e *ValidationError) Error() string {
	return "invalid metadata: " + strings.Join(e.Validity.Invalid(), ", ")
}
