package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/sri-maddineni/college-shortlister/model"
)

// FeeBucket is one of the fixed tuition ranges offered by the fee filter
type FeeBucket string

const (
	FeeAny      FeeBucket = ""
	FeeUpTo10k  FeeBucket = "0-10000"
	Fee10kTo20k FeeBucket = "10000-20000"
	Fee20kTo30k FeeBucket = "20000-30000"
	Fee30kTo40k FeeBucket = "30000-40000"
	FeeFrom40k  FeeBucket = "40000+"
)

// FeeBuckets lists the selectable ranges in ascending order
var FeeBuckets = []FeeBucket{FeeUpTo10k, Fee10kTo20k, Fee20kTo30k, Fee30kTo40k, FeeFrom40k}

// Bounds returns the half-open interval [min, max) covered by the bucket.
// FeeAny and FeeFrom40k are unbounded above.
func (b FeeBucket) Bounds() (min, max float64) {
	switch b {
	case FeeUpTo10k:
		return 0, 10000
	case Fee10kTo20k:
		return 10000, 20000
	case Fee20kTo30k:
		return 20000, 30000
	case Fee30kTo40k:
		return 30000, 40000
	case FeeFrom40k:
		return 40000, math.Inf(1)
	}
	return math.Inf(-1), math.Inf(1)
}

// Contains reports whether fee falls in the bucket
func (b FeeBucket) Contains(fee float64) bool {
	if b == FeeAny {
		return true
	}
	if math.IsNaN(fee) {
		return false
	}
	lo, hi := b.Bounds()
	return fee >= lo && fee < hi
}

// Label is the text shown in filter menus
func (b FeeBucket) Label() string {
	switch b {
	case FeeUpTo10k:
		return "$0 - $10,000"
	case Fee10kTo20k:
		return "$10,000 - $20,000"
	case Fee20kTo30k:
		return "$20,000 - $30,000"
	case Fee30kTo40k:
		return "$30,000 - $40,000"
	case FeeFrom40k:
		return "$40,000+"
	}
	return "All Fees"
}

func (b *FeeBucket) UnmarshalText(text []byte) error {
	parsed, err := ParseFeeBucket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseFeeBucket accepts bucket ids ("10000-20000") and menu labels ("$10,000 - $20,000").
func ParseFeeBucket(s string) (FeeBucket, error) {
	key := strings.TrimSpace(s)
	if key == "" || strings.EqualFold(key, "all") {
		return FeeAny, nil
	}
	for _, b := range FeeBuckets {
		if key == string(b) || key == b.Label() || compactLabel(key) == compactLabel(b.Label()) {
			return b, nil
		}
	}
	return FeeAny, fmt.Errorf("unknown fee range %q (allowed: %s)", s, joinAllowed(FeeBuckets))
}

// "$10,000–$20,000" and "$10,000 - $20,000" name the same bucket
func compactLabel(s string) string {
	return strings.NewReplacer(" ", "", "–", "-", "—", "-").Replace(s)
}

// SortKey orders a filtered result
type SortKey string

const (
	SortNone         SortKey = ""
	SortDeadlineAsc  SortKey = "deadline-asc"
	SortDeadlineDesc SortKey = "deadline-desc"
	SortFeeAsc       SortKey = "fee-asc"
	SortFeeDesc      SortKey = "fee-desc"

	// DefaultSort is what the UI and CLI preselect.
	DefaultSort = SortDeadlineAsc
)

// SortKeys lists the supported orders
var SortKeys = []SortKey{SortDeadlineAsc, SortDeadlineDesc, SortFeeAsc, SortFeeDesc}

func (k *SortKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSortKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseSortKey(s string) (SortKey, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return SortNone, nil
	}
	for _, k := range SortKeys {
		if key == string(k) {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort %q (allowed: %s)", s, joinAllowed(SortKeys))
}

// Criteria is the filter and sort selection of a view. Zero values match everything.
type Criteria struct {
	FeeRange FeeBucket             `json:"feeRange,omitempty" yaml:"feeRange,omitempty" query:"fee"`
	Exam     model.ExamKind        `json:"exam,omitempty" yaml:"exam,omitempty" query:"exam"`
	Location string                `json:"location,omitempty" yaml:"location,omitempty" query:"location"`
	Status   model.AdmissionStatus `json:"status,omitempty" yaml:"status,omitempty" query:"status"`
	Course   string                `json:"course,omitempty" yaml:"course,omitempty" query:"course"`
	Sort     SortKey               `json:"sort,omitempty" yaml:"sort,omitempty" query:"sort"`
}

// Query parameter names understood by ParseCriteria
const (
	ParamFee      = "fee"
	ParamExam     = "exam"
	ParamLocation = "location"
	ParamStatus   = "status"
	ParamCourse   = "course"
	ParamSort     = "sort"
)

// ParseCriteria builds criteria from string parameters such as a URL query.
// Missing keys leave the criterion unset. All invalid values are reported together.
func ParseCriteria(params map[string]string) (Criteria, error) {
	var c Criteria
	var errs []string
	var err error

	if c.FeeRange, err = ParseFeeBucket(params[ParamFee]); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Exam, err = model.ParseExamKind(params[ParamExam]); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Status, err = model.ParseAdmissionStatus(params[ParamStatus]); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Sort, err = ParseSortKey(params[ParamSort]); err != nil {
		errs = append(errs, err.Error())
	}
	c.Location = strings.TrimSpace(params[ParamLocation])
	c.Course = strings.TrimSpace(params[ParamCourse])

	if len(errs) > 0 {
		return c, fmt.Errorf("invalid criteria: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

// WithDefaultSort fills in DefaultSort when no order was chosen
func (c Criteria) WithDefaultSort() Criteria {
	if c.Sort == SortNone {
		c.Sort = DefaultSort
	}
	return c
}

func joinAllowed[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
