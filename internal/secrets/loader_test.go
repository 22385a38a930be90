package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("JOBHUNTER_TEST_KEY", "from-env")

	got, err := Load(Source{Name: "api key", File: path, Value: "inline", Env: "JOBHUNTER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("JOBHUNTER_TEST_KEY", " from-env ")

	got, err := Load(Source{Name: "api key", Env: "JOBHUNTER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("expected env secret, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("JOBHUNTER_UNSET_KEY", "")

	cases := []struct {
		name string
		src  Source
		want string
	}{
		{name: "empty file", src: Source{Name: "token", File: empty}, want: "is empty"},
		{name: "missing file", src: Source{Name: "token", File: empty + ".missing"}, want: "reading token"},
		{name: "unset env", src: Source{Name: "token", Env: "JOBHUNTER_UNSET_KEY"}, want: "set JOBHUNTER_UNSET_KEY"},
		{name: "nothing", src: Source{}, want: "secret is not configured"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}
