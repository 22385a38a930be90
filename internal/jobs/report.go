package jobs

import (
	"encoding/json"
	"fmt"
	"os"
)

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// ReportByCompany groups postings by company for display.
func ReportByCompany(postings []Posting) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range postings {
		entry := map[string]string{
			"title":    p.Title,
			"location": p.Location,
			"source":   p.Source,
			"url":      derefOr(p.URL, ""),
			"salary":   derefOr(p.SalaryRange, "not specified"),
		}
		if p.MatchScore != nil {
			entry["match score"] = fmt.Sprintf("%.2f", *p.MatchScore)
		}
		report[p.Company] = append(report[p.Company], entry)
	}
	return report
}

// DumpToTmpFile writes postings as indented JSON to a new temporary file and returns its name.
func DumpToTmpFile(postings []Posting) (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(postings); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Without returns postings whose key is not in keys.
func Without(postings []Posting, keys ...string) []Posting {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	kept := make([]Posting, 0, len(postings))
	for _, p := range postings {
		if _, ok := drop[p.Key()]; ok {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
