package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .testlens.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Language detection override
	Language string `yaml:"language,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis"`

	// File patterns
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Framework preferences
	Framework FrameworkConfig `yaml:"framework,omitempty"`

	// Planning preferences
	Planning PlanningConfig `yaml:"planning,omitempty"`
}

// AnalysisConfig holds per-repository analysis preferences
type AnalysisConfig struct {
	// Whether to detect edge cases per method
	EdgeCases bool `yaml:"edge_cases,omitempty"`

	// Whether to trace error paths per method
	ErrorPaths bool `yaml:"error_paths,omitempty"`

	// Whether to synthesize property-based test cases
	PropertyTests bool `yaml:"property_tests,omitempty"`

	// Whether to build per-method test scenarios
	Scenarios bool `yaml:"scenarios,omitempty"`

	// Max methods analyzed per class, 0 for unlimited
	MaxMethodsPerClass int `yaml:"max_methods_per_class,omitempty"`
}

// FrameworkConfig holds test framework preferences
type FrameworkConfig struct {
	// Test framework to target (jest, vitest, mocha)
	Name string `yaml:"name,omitempty"`

	// Custom test file suffix
	TestFileSuffix string `yaml:"test_file_suffix,omitempty"`

	// Custom test directory
	TestDir string `yaml:"test_dir,omitempty"`
}

// PlanningConfig holds session planning preferences
type PlanningConfig struct {
	// Default test type for new sessions (unit, integration, e2e)
	TestType string `yaml:"test_type,omitempty"`

	// Default output path for generated tests
	OutputPath string `yaml:"output_path,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Analysis: AnalysisConfig{
			EdgeCases:     true,
			ErrorPaths:    true,
			PropertyTests: true,
			Scenarios:     true,
		},
		Include: []string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"},
		Exclude: []string{
			"**/node_modules/**",
			"**/dist/**",
			"**/build/**",
			"**/*.test.ts",
			"**/*.spec.ts",
			"**/*.test.js",
			"**/*.spec.js",
			"**/*.d.ts",
		},
		Planning: PlanningConfig{
			TestType: "unit",
		},
	}
}

// LoadProjectConfig loads a .testlens.yaml from the given directory
func LoadProjectConfig(repoPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(repoPath, ".testlens.yaml")

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Also try .testlens.yml
		configPath = filepath.Join(repoPath, ".testlens.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to .testlens.yaml
func SaveProjectConfig(repoPath string, cfg *ProjectConfig) error {
	configPath := filepath.Join(repoPath, ".testlens.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Language != "" {
		c.Language = other.Language
	}

	if other.Analysis.MaxMethodsPerClass != 0 {
		c.Analysis.MaxMethodsPerClass = other.Analysis.MaxMethodsPerClass
	}

	if len(other.Include) > 0 {
		c.Include = other.Include
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}

	if other.Framework.Name != "" {
		c.Framework.Name = other.Framework.Name
	}

	if other.Framework.TestFileSuffix != "" {
		c.Framework.TestFileSuffix = other.Framework.TestFileSuffix
	}

	if other.Framework.TestDir != "" {
		c.Framework.TestDir = other.Framework.TestDir
	}

	if other.Planning.TestType != "" {
		c.Planning.TestType = other.Planning.TestType
	}

	if other.Planning.OutputPath != "" {
		c.Planning.OutputPath = other.Planning.OutputPath
	}
}
