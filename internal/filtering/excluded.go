package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spigell/jobhunter/internal/jobs"
)

// Who excluded a posting.
const (
	ExcludeActorUser      = "user"
	ExcludeActorResumeFit = "resume_fit"
)

// ExcludedPostings is the content of an exclude file.
type ExcludedPostings struct {
	Items []*ExcludedPosting `json:"items"`
}

// ExcludedPosting remembers a posting the user does not want to see again.
type ExcludedPosting struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	URL        string    `json:"url,omitempty"`
	Source     string    `json:"source,omitempty"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// ToExcluded converts postings into exclude file entries.
func ToExcluded(postings []jobs.Posting, actor, reason string) *ExcludedPostings {
	excluded := &ExcludedPostings{}
	now := time.Now().UTC()
	for _, p := range postings {
		item := &ExcludedPosting{
			Key:        p.Key(),
			Title:      p.Title,
			Company:    p.Company,
			Source:     p.Source,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: now,
		}
		if p.URL != nil {
			item.URL = *p.URL
		}
		excluded.Items = append(excluded.Items, item)
	}
	return excluded
}

// LoadExcluded reads an exclude file. A missing or empty file is an empty list.
func LoadExcluded(path string) (*ExcludedPostings, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedPostings{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPostings{}, nil
	}

	var excluded ExcludedPostings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &excluded, nil
}

func (e *ExcludedPostings) Append(s *ExcludedPostings) {
	e.Items = append(e.Items, s.Items...)
}

// Contains reports whether p was excluded, by key or by URL.
func (e *ExcludedPostings) Contains(p jobs.Posting) bool {
	key := p.Key()
	for _, item := range e.Items {
		if item.Key == key {
			return true
		}
		if p.URL != nil && item.URL != "" && item.URL == *p.URL {
			return true
		}
	}
	return false
}

// ToFile rewrites the exclude file.
func (e *ExcludedPostings) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// AppendToFile adds entries to the exclude file at path, creating it when needed.
func AppendToFile(path string, add *ExcludedPostings) error {
	excluded, err := LoadExcluded(path)
	if err != nil {
		return fmt.Errorf("load excluded postings: %w", err)
	}
	excluded.Append(add)

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded postings: %w", err)
	}
	return nil
}
