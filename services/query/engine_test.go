package query

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-maddineni/college-shortlister/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(name string, fee float64, deadline string) model.Record {
	r := model.Record{
		ID:              "id-" + name,
		InstitutionName: name,
		CourseName:      "MSc Computer Science",
		City:            "Berlin",
		Country:         "Germany",
		TuitionFee:      fee,
		Semesters:       4,
		Status:          model.StatusNotApplied,
	}
	if deadline != "" {
		r.Deadline = day(deadline)
	}
	return r
}

func names(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.InstitutionName
	}
	return out
}

func randomRecords(rng *rand.Rand, n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		deadline := day("2024-01-01").AddDate(0, 0, rng.Intn(20))
		out[i] = rec(fmt.Sprintf("R%02d", i), float64(rng.Intn(6)*10000), "")
		out[i].Deadline = deadline
	}
	return out
}

func TestFeeRangeScenario(t *testing.T) {
	records := []model.Record{rec("A", 5000, "2024-06-01"), rec("B", 15000, "2024-06-01"), rec("C", 42000, "2024-06-01")}

	bucket, err := ParseFeeBucket("$10,000–$20,000")
	require.NoError(t, err)

	got := FilterAndSort(records, Criteria{FeeRange: bucket, Sort: SortDeadlineAsc})
	assert.Equal(t, []string{"B"}, names(got))
}

func TestFeeBucketsAreHalfOpen(t *testing.T) {
	assert.True(t, Fee10kTo20k.Contains(10000))
	assert.False(t, Fee10kTo20k.Contains(20000))
	assert.True(t, Fee20kTo30k.Contains(20000))
	assert.True(t, FeeFrom40k.Contains(40000))
	assert.True(t, FeeFrom40k.Contains(1e9))
	assert.False(t, FeeUpTo10k.Contains(-1))
	assert.True(t, FeeAny.Contains(-1))
}

func TestFeeFilterProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := randomRecords(rng, 60)

	for _, bucket := range FeeBuckets {
		got := FilterAndSort(records, Criteria{FeeRange: bucket})
		lo, hi := bucket.Bounds()
		included := make(map[string]bool)
		for _, r := range got {
			included[r.ID] = true
			assert.True(t, r.TuitionFee >= lo && r.TuitionFee < hi, "%s fee %v", bucket, r.TuitionFee)
		}
		for _, r := range records {
			if !included[r.ID] {
				assert.False(t, r.TuitionFee >= lo && r.TuitionFee < hi, "%s excluded %v", bucket, r.TuitionFee)
			}
		}
	}
}

func TestEmptyCriteriaIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records := randomRecords(rng, 40)

	for _, key := range append([]SortKey{SortNone, "bogus"}, SortKeys...) {
		got := FilterAndSort(records, Criteria{Sort: key})
		require.Len(t, got, len(records), key)
		assert.ElementsMatch(t, names(records), names(got), key)
	}
}

func TestUnknownSortPreservesInputOrder(t *testing.T) {
	records := []model.Record{rec("C", 3, "2024-03-01"), rec("A", 1, "2024-01-01"), rec("B", 2, "2024-02-01")}
	assert.Equal(t, []string{"C", "A", "B"}, names(FilterAndSort(records, Criteria{Sort: "alphabetical"})))
	assert.Equal(t, []string{"C", "A", "B"}, names(FilterAndSort(records, Criteria{})))
}

func TestDeadlineOrdersReverseAndStayStable(t *testing.T) {
	records := []model.Record{
		rec("A", 1, "2024-06-01"),
		rec("B", 2, "2024-06-01"),
		rec("C", 3, "2024-01-15"),
		rec("D", 4, "2024-09-30"),
	}

	asc := FilterAndSort(records, Criteria{Sort: SortDeadlineAsc})
	desc := FilterAndSort(records, Criteria{Sort: SortDeadlineDesc})

	assert.Equal(t, []string{"C", "A", "B", "D"}, names(asc))
	assert.Equal(t, []string{"D", "A", "B", "C"}, names(desc))
}

func TestDeadlineReverseProperty(t *testing.T) {
	records := make([]model.Record, 25)
	perm := rand.New(rand.NewSource(3)).Perm(len(records))
	for i, p := range perm {
		records[i] = rec(fmt.Sprintf("R%02d", p), 0, "")
		records[i].Deadline = day("2024-01-01").AddDate(0, 0, p)
	}

	asc := names(FilterAndSort(records, Criteria{Sort: SortDeadlineAsc}))
	desc := names(FilterAndSort(records, Criteria{Sort: SortDeadlineDesc}))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestEqualDeadlinesKeepInputOrder(t *testing.T) {
	records := []model.Record{rec("A", 0, "2024-06-01"), rec("B", 0, "2024-06-01")}
	assert.Equal(t, []string{"A", "B"}, names(FilterAndSort(records, Criteria{Sort: SortDeadlineAsc})))
	assert.Equal(t, []string{"A", "B"}, names(FilterAndSort(records, Criteria{Sort: SortDeadlineDesc})))
}

func TestFeeSort(t *testing.T) {
	records := []model.Record{rec("A", 300, ""), rec("B", 100, ""), rec("C", 300, ""), rec("D", 200, "")}
	assert.Equal(t, []string{"B", "D", "A", "C"}, names(FilterAndSort(records, Criteria{Sort: SortFeeAsc})))
	assert.Equal(t, []string{"A", "C", "D", "B"}, names(FilterAndSort(records, Criteria{Sort: SortFeeDesc})))
}

func TestUndatedRecordsSortLast(t *testing.T) {
	records := []model.Record{rec("X", 0, ""), rec("A", 0, "2024-01-01"), rec("B", 0, "2024-02-01")}
	assert.Equal(t, []string{"A", "B", "X"}, names(FilterAndSort(records, Criteria{Sort: SortDeadlineAsc})))
	assert.Equal(t, []string{"B", "A", "X"}, names(FilterAndSort(records, Criteria{Sort: SortDeadlineDesc})))
}

func TestCriteriaAreConjunctive(t *testing.T) {
	a := rec("A", 12000, "2024-01-01")
	a.City, a.Country = "Zürich", "Switzerland"
	a.Exams = model.ExamScores{{Exam: model.ExamIELTS, Score: 7}}
	a.Status = model.StatusApplied

	b := rec("B", 12000, "2024-01-01")
	b.Exams = model.ExamScores{{Exam: model.ExamGRE, Score: 320}}
	b.Status = model.StatusApplied

	c := rec("C", 12000, "2024-01-01")
	c.CourseName = "MBA"
	c.Country = "germany"

	records := []model.Record{a, b, c}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"exam membership", Criteria{Exam: model.ExamIELTS}, []string{"A"}},
		{"location matches city case-insensitively", Criteria{Location: "ZÜR"}, []string{"A"}},
		{"location matches country", Criteria{Location: "GERM"}, []string{"B", "C"}},
		{"status equality", Criteria{Status: model.StatusApplied}, []string{"A", "B"}},
		{"course equality", Criteria{Course: "MBA"}, []string{"C"}},
		{"course is exact", Criteria{Course: "mba"}, nil},
		{"all combined", Criteria{FeeRange: Fee10kTo20k, Exam: model.ExamGRE, Location: "berlin", Status: model.StatusApplied}, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(FilterAndSort(records, tt.criteria))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []model.Record{rec("B", 2, "2024-02-01"), rec("A", 1, "2024-01-01")}
	_ = FilterAndSort(records, Criteria{Sort: SortFeeAsc})
	assert.Equal(t, []string{"B", "A"}, names(records))
	assert.Empty(t, FilterAndSort(nil, Criteria{Sort: SortFeeAsc}))
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria(map[string]string{
		"fee": "40000+", "exam": "toefl", "status": "Applied",
		"sort": "fee-desc", "location": " India ", "course": "MBA",
	})
	require.NoError(t, err)
	assert.Equal(t, Criteria{
		FeeRange: FeeFrom40k, Exam: model.ExamTOEFL, Status: model.StatusApplied,
		Sort: SortFeeDesc, Location: "India", Course: "MBA",
	}, c)

	_, err = ParseCriteria(map[string]string{"fee": "cheap", "sort": "name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee range")
	assert.Contains(t, err.Error(), "sort")

	empty, err := ParseCriteria(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSort, empty.WithDefaultSort().Sort)
}

func TestDistinctCourses(t *testing.T) {
	a, b, c := rec("A", 0, ""), rec("B", 0, ""), rec("C", 0, "")
	b.CourseName = "MBA"
	assert.Equal(t, []string{"MSc Computer Science", "MBA"}, DistinctCourses([]model.Record{a, b, c}))
}
