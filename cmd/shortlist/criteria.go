package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sri-maddineni/college-shortlister/services/query"
)

// criteriaFlags are the filter flags shared by render and list
type criteriaFlags struct {
	file     string
	fee      string
	exam     string
	location string
	status   string
	course   string
	sort     string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.file, "criteria", "", "YAML file with a saved view (flags override it)")
	flags.StringVar(&f.fee, "fee", "", "tuition range, e.g. 10000-20000 or 40000+")
	flags.StringVar(&f.exam, "exam", "", "required exam: IELTS, TOEFL, GRE or Duolingo")
	flags.StringVar(&f.location, "location", "", "substring of city or country")
	flags.StringVar(&f.status, "status", "", "admission status")
	flags.StringVar(&f.course, "course", "", "exact course name")
	flags.StringVar(&f.sort, "sort", string(query.DefaultSort), "deadline-asc, deadline-desc, fee-asc or fee-desc")
}

// resolve merges the criteria file with the flags the user set explicitly
func (f *criteriaFlags) resolve(cmd *cobra.Command) (query.Criteria, error) {
	var base query.Criteria
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return base, fmt.Errorf("read criteria: %w", err)
		}
		if err := yaml.Unmarshal(data, &base); err != nil {
			return base, fmt.Errorf("parse criteria %s: %w", f.file, err)
		}
	}

	params := map[string]string{
		query.ParamFee:      string(base.FeeRange),
		query.ParamExam:     string(base.Exam),
		query.ParamLocation: base.Location,
		query.ParamStatus:   string(base.Status),
		query.ParamCourse:   base.Course,
		query.ParamSort:     string(base.Sort),
	}
	override := map[string]string{
		"fee":      f.fee,
		"exam":     f.exam,
		"location": f.location,
		"status":   f.status,
		"course":   f.course,
		"sort":     f.sort,
	}
	for name, value := range override {
		if cmd.Flags().Changed(name) {
			params[name] = value
		}
	}
	if params[query.ParamSort] == "" {
		params[query.ParamSort] = f.sort
	}

	return query.ParseCriteria(params)
}
