package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseURL_HTTPS(t *testing.T) {
	info, err := ParseURL("https://github.com/acme/widgets")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if info.Owner != "acme" || info.Name != "widgets" {
		t.Errorf("Owner/Name = %s/%s, want acme/widgets", info.Owner, info.Name)
	}
	if info.CloneURL != "https://github.com/acme/widgets.git" {
		t.Errorf("CloneURL = %s", info.CloneURL)
	}
}

func TestParseURL_SSH(t *testing.T) {
	info, err := ParseURL("git@github.com:acme/widgets.git")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if info.Owner != "acme" || info.Name != "widgets" {
		t.Errorf("Owner/Name = %s/%s, want acme/widgets", info.Owner, info.Name)
	}
}

func TestParseURL_TrimsGitSuffix(t *testing.T) {
	info, err := ParseURL("https://github.com/acme/widgets.git")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if info.Name != "widgets" {
		t.Errorf("Name = %s, want widgets", info.Name)
	}
}

func TestParseURL_RejectsOtherHosts(t *testing.T) {
	if _, err := ParseURL("https://gitlab.com/acme/widgets"); err == nil {
		t.Error("Expected error for non-github host")
	}
	if _, err := ParseURL("git@example.com"); err == nil {
		t.Error("Expected error for malformed SSH URL")
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/user.ts", "class A {}")
	writeFile(t, dir, "src/user.test.ts", "test")
	writeFile(t, dir, "node_modules/pkg/index.ts", "ignored")
	writeFile(t, dir, "docs/readme.md", "text")

	files, err := SourceFiles(dir,
		[]string{"**/*.ts"},
		[]string{"**/node_modules/**", "**/*.test.ts"})
	if err != nil {
		t.Fatalf("SourceFiles failed: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("files = %v, want exactly src/user.ts", files)
	}
	if files[0] != filepath.Join("src", "user.ts") {
		t.Errorf("files[0] = %s", files[0])
	}
}

func TestSourceFiles_NoIncludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "x")
	writeFile(t, dir, "b.txt", "x")

	files, err := SourceFiles(dir, nil, nil)
	if err != nil {
		t.Fatalf("SourceFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != "a.js" {
		t.Errorf("files = %v, want [a.js]", files)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
