package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobhunter/internal/jobs"
)

const (
	SearchPath = "/vacancies"
)

// SearchParams mirror the hh.ru /vacancies query.
type SearchParams struct {
	Text string `yaml:"text"`
	// hhparam is custom tag for reflect. Please see below.
	Areas          []int    `hhparam:"area"`
	Salary         int      `yaml:"salary"`
	Currency       string   `yaml:"currency"`
	OnlyWithSalary bool     `yaml:"only_with_salary"`
	Employments    []string `hhparam:"employment"`
	Schedules      []string `hhparam:"schedule"`
	OrderBy        string   `yaml:"order_by"`
	PerPage        string   `yaml:"per_page" mapstructure:"per_page"`
	Experience     string   `yaml:"experience"`
	Period         uint     `yaml:"period"`
}

// Search runs a vacancy search and decodes every fetched page.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*Vacancies, error) {
	var vacancies []*Vacancy

	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(ctx, apiURLSearch, q)
	if err != nil {
		return nil, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &vacancies,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding vacancies: %w", err)
	}

	return &Vacancies{
		Items: vacancies,
	}, nil
}

// employmentTypes maps free-form job types onto hh.ru employment and schedule ids.
var employmentTypes = map[string]struct{ employment, schedule string }{
	"full-time":  {employment: "full"},
	"fulltime":   {employment: "full"},
	"full":       {employment: "full"},
	"part-time":  {employment: "part"},
	"parttime":   {employment: "part"},
	"part":       {employment: "part"},
	"contract":   {employment: "project"},
	"project":    {employment: "project"},
	"internship": {employment: "probation"},
	"volunteer":  {employment: "volunteer"},
	"remote":     {schedule: "remote"},
}

// searchParams translates a generic search into the hh.ru query. Location is matched by
// text because hh.ru areas are numeric ids; configured areas are used as is.
func (c *Client) searchParams(p jobs.SearchParams) *SearchParams {
	params := &SearchParams{
		Text:    strings.TrimSpace(p.Query),
		Areas:   c.areas,
		OrderBy: "publication_time",
	}
	if loc := strings.TrimSpace(p.Location); loc != "" && len(c.areas) == 0 {
		params.Text = strings.TrimSpace(params.Text + " " + loc)
	}

	switch {
	case p.SalaryMin != nil:
		params.Salary = *p.SalaryMin
		params.OnlyWithSalary = true
	case p.SalaryMax != nil:
		params.Salary = *p.SalaryMax
		params.OnlyWithSalary = true
	}

	if t, ok := employmentTypes[strings.ToLower(strings.TrimSpace(p.JobType))]; ok {
		if t.employment != "" {
			params.Employments = []string{t.employment}
		}
		if t.schedule != "" {
			params.Schedules = []string{t.schedule}
		}
	}

	return params
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("hhparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		value := reflect.ValueOf(params).Elem().Field(field.Index[0])
		switch field.Type.Kind() {
		case reflect.Slice:
			switch v := value.Interface().(type) {
			case []int:
				for _, item := range v {
					q.Add(key, strconv.Itoa(item))
				}
			case []string:
				for _, item := range v {
					q.Add(key, item)
				}
			}

		case reflect.Bool:
			if value.Bool() {
				q.Set(key, "true")
			}

		default:
			v := fmt.Sprintf("%v", value.Interface())
			if v != "" && v != "0" {
				q.Set(key, v)
			}
		}
	}

	return q
}
