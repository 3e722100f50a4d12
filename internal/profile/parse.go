package profile

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/fadilmartias/job-matcher/internal/apperror"
)

// ParseExpectedSalary reads a candidate's salary expectation in absolute units.
// "80k-120k" averages the bounds (100000), "95000" is taken as-is, and
// anything else reports ok=false.
func ParseExpectedSalary(s string) (float64, bool) {
	v, err := ParseExpectedSalaryStrict(s)
	return v, err == nil
}

// ParseExpectedSalaryStrict is ParseExpectedSalary reporting the failure as
// *apperror.MalformedInputError.
func ParseExpectedSalaryStrict(s string) (float64, error) {
	malformed := &apperror.MalformedInputError{Field: "salary", Value: s}

	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, malformed
	}

	parts := strings.Split(cleaned, "-")
	switch len(parts) {
	case 1:
		v, ok := parseSalaryBound(parts[0])
		if !ok {
			return 0, malformed
		}
		return v, nil
	case 2:
		lo, okLo := parseSalaryBound(parts[0])
		hi, okHi := parseSalaryBound(parts[1])
		if !okLo || !okHi {
			return 0, malformed
		}
		return (lo + hi) / 2, nil
	default:
		return 0, malformed
	}
}

func parseSalaryBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		multiplier = 1000
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * multiplier, true
}

// ParseExperienceYears concatenates every digit in s and reads the result as
// one integer: "Senior, 7+ yrs" gives 7. No digits reports ok=false.
func ParseExperienceYears(s string) (int, bool) {
	v, err := ParseExperienceYearsStrict(s)
	return v, err == nil
}

// ParseExperienceYearsStrict is ParseExperienceYears reporting the failure as
// *apperror.MalformedInputError.
func ParseExperienceYearsStrict(s string) (int, error) {
	var digits strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, &apperror.MalformedInputError{Field: "experience", Value: s}
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, &apperror.MalformedInputError{Field: "experience", Value: s}
	}
	return v, nil
}
