package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProjectConfig(t *testing.T) {
	cfg := DefaultProjectConfig()

	if cfg == nil {
		t.Fatal("DefaultProjectConfig() returned nil")
	}

	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}

	// Check analysis defaults
	if !cfg.Analysis.EdgeCases {
		t.Error("Analysis.EdgeCases should be true")
	}
	if !cfg.Analysis.ErrorPaths {
		t.Error("Analysis.ErrorPaths should be true")
	}
	if !cfg.Analysis.PropertyTests {
		t.Error("Analysis.PropertyTests should be true")
	}
	if !cfg.Analysis.Scenarios {
		t.Error("Analysis.Scenarios should be true")
	}

	// Check include patterns
	if len(cfg.Include) != 4 {
		t.Errorf("len(Include) = %d, want 4", len(cfg.Include))
	}

	// Check exclude patterns
	if len(cfg.Exclude) < 4 {
		t.Errorf("len(Exclude) = %d, want at least 4", len(cfg.Exclude))
	}

	// Check planning defaults
	if cfg.Planning.TestType != "unit" {
		t.Errorf("Planning.TestType = %s, want unit", cfg.Planning.TestType)
	}
}

func TestProjectConfig_Fields(t *testing.T) {
	cfg := &ProjectConfig{
		Version:  "2.0",
		Language: "typescript",
		Include:  []string{"src/**/*.ts"},
		Exclude:  []string{"**/node_modules/**"},
	}

	if cfg.Version != "2.0" {
		t.Errorf("Version = %s, want 2.0", cfg.Version)
	}
	if cfg.Language != "typescript" {
		t.Errorf("Language = %s, want typescript", cfg.Language)
	}
	if len(cfg.Include) != 1 {
		t.Errorf("len(Include) = %d, want 1", len(cfg.Include))
	}
	if len(cfg.Exclude) != 1 {
		t.Errorf("len(Exclude) = %d, want 1", len(cfg.Exclude))
	}
}

func TestProjectConfig_Merge(t *testing.T) {
	base := DefaultProjectConfig()

	override := &ProjectConfig{
		Language: "javascript",
		Analysis: AnalysisConfig{
			MaxMethodsPerClass: 20,
		},
		Include: []string{"lib/**/*.js"},
		Framework: FrameworkConfig{
			Name:    "vitest",
			TestDir: "tests",
		},
		Planning: PlanningConfig{
			TestType:   "integration",
			OutputPath: "tests/integration",
		},
	}

	base.Merge(override)

	if base.Language != "javascript" {
		t.Errorf("Language = %s, want javascript", base.Language)
	}
	if base.Analysis.MaxMethodsPerClass != 20 {
		t.Errorf("Analysis.MaxMethodsPerClass = %d, want 20", base.Analysis.MaxMethodsPerClass)
	}
	if len(base.Include) != 1 || base.Include[0] != "lib/**/*.js" {
		t.Errorf("Include = %v, want [lib/**/*.js]", base.Include)
	}
	if base.Framework.Name != "vitest" {
		t.Errorf("Framework.Name = %s, want vitest", base.Framework.Name)
	}
	if base.Framework.TestDir != "tests" {
		t.Errorf("Framework.TestDir = %s, want tests", base.Framework.TestDir)
	}
	if base.Planning.TestType != "integration" {
		t.Errorf("Planning.TestType = %s, want integration", base.Planning.TestType)
	}
	if base.Planning.OutputPath != "tests/integration" {
		t.Errorf("Planning.OutputPath = %s, want tests/integration", base.Planning.OutputPath)
	}
}

func TestProjectConfig_Merge_NilOverride(t *testing.T) {
	base := DefaultProjectConfig()
	originalVersion := base.Version

	base.Merge(nil)

	// Should not change anything
	if base.Version != originalVersion {
		t.Error("Merge(nil) should not change config")
	}
}

func TestProjectConfig_Merge_PartialOverride(t *testing.T) {
	base := DefaultProjectConfig()
	originalTestType := base.Planning.TestType
	originalExclude := len(base.Exclude)

	// Only override the framework name
	override := &ProjectConfig{
		Framework: FrameworkConfig{
			Name: "mocha",
		},
	}

	base.Merge(override)

	// Framework name should change
	if base.Framework.Name != "mocha" {
		t.Errorf("Framework.Name = %s, want mocha", base.Framework.Name)
	}

	// Test type should remain unchanged
	if base.Planning.TestType != originalTestType {
		t.Errorf("Planning.TestType = %s, want %s", base.Planning.TestType, originalTestType)
	}

	// Exclude should remain unchanged
	if len(base.Exclude) != originalExclude {
		t.Errorf("len(Exclude) = %d, want %d", len(base.Exclude), originalExclude)
	}
}

func TestLoadProjectConfig_NoFile(t *testing.T) {
	// Use temp directory with no config file
	tmpDir := t.TempDir()

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	// Should return defaults
	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}
	if cfg.Planning.TestType != "unit" {
		t.Errorf("Planning.TestType = %s, want unit", cfg.Planning.TestType)
	}
}

func TestLoadProjectConfig_YamlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".testlens.yaml")

	yamlContent := `
version: "2.0"
language: typescript
analysis:
  max_methods_per_class: 50
include:
  - "src/**/*.ts"
framework:
  name: jest
planning:
  test_type: e2e
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Version != "2.0" {
		t.Errorf("Version = %s, want 2.0", cfg.Version)
	}
	if cfg.Language != "typescript" {
		t.Errorf("Language = %s, want typescript", cfg.Language)
	}
	if cfg.Analysis.MaxMethodsPerClass != 50 {
		t.Errorf("Analysis.MaxMethodsPerClass = %d, want 50", cfg.Analysis.MaxMethodsPerClass)
	}
	if cfg.Framework.Name != "jest" {
		t.Errorf("Framework.Name = %s, want jest", cfg.Framework.Name)
	}
	if cfg.Planning.TestType != "e2e" {
		t.Errorf("Planning.TestType = %s, want e2e", cfg.Planning.TestType)
	}
}

func TestLoadProjectConfig_YmlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".testlens.yml")

	yamlContent := `
version: "1.5"
language: javascript
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Version != "1.5" {
		t.Errorf("Version = %s, want 1.5", cfg.Version)
	}
	if cfg.Language != "javascript" {
		t.Errorf("Language = %s, want javascript", cfg.Language)
	}
}

func TestSaveProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &ProjectConfig{
		Version:  "1.0",
		Language: "typescript",
		Planning: PlanningConfig{
			TestType: "unit",
		},
	}

	if err := SaveProjectConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveProjectConfig() error = %v", err)
	}

	// Verify file was created
	configPath := filepath.Join(tmpDir, ".testlens.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Load it back
	loaded, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if loaded.Version != cfg.Version {
		t.Errorf("Version = %s, want %s", loaded.Version, cfg.Version)
	}
	if loaded.Language != cfg.Language {
		t.Errorf("Language = %s, want %s", loaded.Language, cfg.Language)
	}
	if loaded.Planning.TestType != cfg.Planning.TestType {
		t.Errorf("Planning.TestType = %s, want %s", loaded.Planning.TestType, cfg.Planning.TestType)
	}
}

func TestLoadProjectConfig_InvalidYaml(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".testlens.yaml")

	invalidYaml := `
version: [invalid yaml
analysis:
  - this is wrong
`

	if err := os.WriteFile(configPath, []byte(invalidYaml), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadProjectConfig(tmpDir)
	if err == nil {
		t.Error("LoadProjectConfig() should return error for invalid YAML")
	}
}
