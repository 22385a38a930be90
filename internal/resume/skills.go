package resume

import (
	"regexp"
	"strings"
)

// Vocabulary is the set of technical skills ExtractSkills recognizes.
var Vocabulary = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "golang", "rust",
	"react", "angular", "vue", "django", "flask", "fastapi", "express",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins", "gitlab",
	"sql", "postgresql", "mongodb", "redis", "elasticsearch", "kafka", "spark", "airflow",
	"git", "linux", "rest api", "graphql", "microservices", "agile",
}

var vocabularyRes = compileVocabulary(Vocabulary)

// Skills are matched as whole words so that "go" does not match "google" and
// "java" does not match "javascript".
func compileVocabulary(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(^|[^a-z0-9+#])` + regexp.QuoteMeta(w) + `($|[^a-z0-9+#])`)
	}
	return out
}

// ExtractSkills returns the vocabulary skills present in text, in vocabulary order.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for i, re := range vocabularyRes {
		if re.MatchString(lower) {
			found = append(found, Vocabulary[i])
		}
	}
	return found
}

// ParseSkills splits a comma separated skill list, dropping blanks.
func ParseSkills(list string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
