// Package config defines the bootstrap plan: the directory skeleton, package
// marker files, dependency manifests, and environment template the tool
// materializes. The plan ships with compiled-in defaults and may be
// overridden from a stackinit.yaml file so the path data stays inspectable
// and testable instead of being scattered through control flow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPlanFile is the well-known override filename looked up in the
// workspace root.
const DefaultPlanFile = "stackinit.yaml"

// Manifest names a dependency manifest by role. Absence of the file is a
// normal, reported condition, never an error.
type Manifest struct {
	// Role is the human-readable role, e.g. "production" or "development".
	Role string `yaml:"role"`
	// File is the manifest filename, relative to the backend root.
	File string `yaml:"file"`
}

// Plan describes everything the bootstrap materializes. All paths are
// relative: Directories and MarkerFiles to the workspace root, the venv,
// manifest, and env entries to the backend root.
type Plan struct {
	// BackendRoot is the backend directory, relative to the workspace.
	BackendRoot string `yaml:"backend_root"`

	// Directories is the full directory skeleton. Creation is idempotent
	// and each path is independent, so order carries no meaning.
	Directories []string `yaml:"directories"`

	// MarkerFiles are the empty __init__.py files that make the backend
	// app tree importable as Python packages.
	MarkerFiles []string `yaml:"marker_files"`

	// VenvDir is the isolated environment directory inside the backend
	// root.
	VenvDir string `yaml:"venv_dir"`

	// Manifests are checked in order; each missing one is reported and
	// skipped.
	Manifests []Manifest `yaml:"manifests"`

	// EnvTemplate and EnvFile drive the seed-once configuration copy
	// inside the backend root. EnvFile is never overwritten once present.
	EnvTemplate string `yaml:"env_template"`
	EnvFile     string `yaml:"env_file"`

	// ExpectedPackages are case-sensitive substrings matched against
	// `pip list` output during verification. Zero matches is not an error.
	ExpectedPackages []string `yaml:"expected_packages"`

	// Interpreters are interpreter binaries probed in order for the
	// runtime check.
	Interpreters []string `yaml:"interpreters"`
}

// Default returns the built-in plan: the Python backend / SvelteKit-style
// frontend skeleton the original platform ships with.
func Default() Plan {
	return Plan{
		BackendRoot: "backend",
		Directories: []string{
			filepath.Join("backend", "app", "core"),
			filepath.Join("backend", "app", "models"),
			filepath.Join("backend", "app", "services"),
			filepath.Join("backend", "app", "api"),
			filepath.Join("backend", "app", "middleware"),
			filepath.Join("backend", "app", "utils"),
			filepath.Join("backend", "tests"),
			filepath.Join("backend", "scripts"),
			filepath.Join("backend", "logs"),
			filepath.Join("frontend", "src", "lib"),
			filepath.Join("frontend", "src", "routes"),
			filepath.Join("frontend", "static"),
			"docs",
			filepath.Join(".github", "workflows"),
		},
		MarkerFiles: []string{
			filepath.Join("backend", "app", "__init__.py"),
			filepath.Join("backend", "app", "core", "__init__.py"),
			filepath.Join("backend", "app", "models", "__init__.py"),
			filepath.Join("backend", "app", "services", "__init__.py"),
			filepath.Join("backend", "app", "api", "__init__.py"),
			filepath.Join("backend", "app", "middleware", "__init__.py"),
			filepath.Join("backend", "app", "utils", "__init__.py"),
			filepath.Join("backend", "tests", "__init__.py"),
		},
		VenvDir: "venv",
		Manifests: []Manifest{
			{Role: "production", File: "requirements.txt"},
			{Role: "development", File: "requirements-dev.txt"},
		},
		EnvTemplate: ".env.example",
		EnvFile:     ".env",
		ExpectedPackages: []string{
			"fastapi",
			"uvicorn",
			"pydantic",
			"motor",
			"openai",
		},
		Interpreters: []string{"python3", "python"},
	}
}

// Load returns the default plan with any overrides from the given YAML
// file applied. A missing file yields the defaults unchanged.
func Load(path string) (Plan, error) {
	plan := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return plan, nil
		}
		return plan, fmt.Errorf("failed to read plan file: %w", err)
	}

	if err := yaml.Unmarshal(data, &plan); err != nil {
		return plan, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return plan, fmt.Errorf("invalid plan in %s: %w", path, err)
	}
	return plan, nil
}

// Validate checks that the plan is internally consistent and that every
// path stays inside the workspace.
func (p Plan) Validate() error {
	if p.BackendRoot == "" {
		return fmt.Errorf("backend_root is required")
	}
	if len(p.Directories) == 0 {
		return fmt.Errorf("at least one directory is required")
	}
	if p.VenvDir == "" {
		return fmt.Errorf("venv_dir is required")
	}
	if len(p.Interpreters) == 0 {
		return fmt.Errorf("at least one interpreter candidate is required")
	}

	for _, d := range p.Directories {
		if err := checkRelative("directory", d); err != nil {
			return err
		}
	}
	for _, f := range p.MarkerFiles {
		if err := checkRelative("marker file", f); err != nil {
			return err
		}
	}
	for _, m := range p.Manifests {
		if m.Role == "" || m.File == "" {
			return fmt.Errorf("manifest entries need both role and file")
		}
		if err := checkRelative("manifest", m.File); err != nil {
			return err
		}
	}
	if p.EnvTemplate != "" {
		if err := checkRelative("env template", p.EnvTemplate); err != nil {
			return err
		}
	}
	if p.EnvFile != "" {
		if err := checkRelative("env file", p.EnvFile); err != nil {
			return err
		}
	}
	return checkRelative("venv dir", p.VenvDir)
}

func checkRelative(kind, p string) error {
	if p == "" {
		return fmt.Errorf("%s path must not be empty", kind)
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("%s path must be relative: %s", kind, p)
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s path escapes the workspace: %s", kind, p)
	}
	return nil
}
