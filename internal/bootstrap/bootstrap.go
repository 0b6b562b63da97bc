// Package bootstrap implements the stackinit environment-bootstrap
// procedure: a single linear pipeline that checks the Python runtime,
// materializes the workspace skeleton, provisions the isolated dependency
// environment, installs manifests, seeds the live configuration, and
// verifies the result.
//
// The pipeline has exactly one fatal gate (the runtime check) and no
// branching beyond existence checks. Every other step either succeeds, is
// reported and skipped, or propagates its subprocess failure and aborts
// the remaining steps. Re-running the whole pipeline is the recovery path;
// each step is idempotent.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stackinit/internal/config"
	"stackinit/internal/execx"
	"stackinit/internal/pyruntime"
	"stackinit/internal/scaffold"
	"stackinit/internal/venv"
)

// Config holds everything the pipeline needs.
type Config struct {
	// Workspace is the root the skeleton is materialized under.
	Workspace string

	// Plan is the resolved bootstrap plan.
	Plan config.Plan

	// Runner executes subprocesses. Defaults to a host runner.
	Runner execx.Runner

	// Logger receives structured progress; nil disables logging.
	Logger *zap.Logger

	// Out receives the human-readable status lines. Defaults to stdout.
	Out io.Writer
}

// Result captures what one run did, mirroring the final filesystem state.
type Result struct {
	RunID         string
	Workspace     string
	PythonBinary  string
	PythonVersion string

	Directories []scaffold.Entry
	MarkerFiles []scaffold.Entry

	VenvPath           string
	InstalledManifests []string
	SkippedManifests   []string

	EnvSeed scaffold.SeedStatus

	PackageMatches []string
	Warnings       []string
	Duration       time.Duration
}

// Pipeline runs the bootstrap procedure.
type Pipeline struct {
	cfg    Config
	runner execx.Runner
	log    *zap.Logger
	out    io.Writer
}

// New creates a pipeline, filling in defaults for Runner, Logger and Out.
func New(cfg Config) *Pipeline {
	if cfg.Workspace == "" {
		cfg.Workspace, _ = os.Getwd()
	}
	p := &Pipeline{cfg: cfg, runner: cfg.Runner, log: cfg.Logger, out: cfg.Out}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.runner == nil {
		p.runner = execx.NewLocal(p.log)
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	return p
}

// Run executes all seven steps in order. The returned Result is valid even
// when err is non-nil; it reflects everything completed before the abort.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	plan := p.cfg.Plan
	backendRoot := filepath.Join(p.cfg.Workspace, plan.BackendRoot)

	result := &Result{
		RunID:     uuid.NewString(),
		Workspace: p.cfg.Workspace,
		EnvSeed:   scaffold.SkippedNoTemplate,
	}

	p.printf("🚀 Bootstrapping workspace: %s\n\n", p.cfg.Workspace)
	p.log.Info("bootstrap started",
		zap.String("run_id", result.RunID),
		zap.String("workspace", p.cfg.Workspace))

	// Step 1: runtime check. The only fatal gate.
	py, err := pyruntime.Detect(ctx, p.runner, plan.Interpreters)
	if err != nil {
		p.printf("✗ %v\n", err)
		p.log.Error("runtime check failed", zap.Error(err))
		result.Duration = time.Since(started)
		return result, err
	}
	result.PythonBinary = py.Binary
	result.PythonVersion = py.Version
	p.printf("✓ Found %s (%s)\n", py.Version, py.Path)

	// Step 2: directory skeleton.
	p.printf("\n📁 Creating directory structure\n")
	result.Directories, err = scaffold.EnsureDirectories(p.cfg.Workspace, plan.Directories)
	if err != nil {
		result.Duration = time.Since(started)
		return result, err
	}
	for _, e := range result.Directories {
		p.reportEntry(e)
	}

	// Step 3: package markers.
	p.printf("\n📄 Creating package markers\n")
	result.MarkerFiles, err = scaffold.EnsureMarkerFiles(p.cfg.Workspace, plan.MarkerFiles)
	if err != nil {
		result.Duration = time.Since(started)
		return result, err
	}
	for _, e := range result.MarkerFiles {
		p.reportEntry(e)
	}

	// Step 4: isolated environment. The venv module is overwrite-safe, so
	// no existence check; a non-zero exit is surfaced as a warning and the
	// install step is left to fail on its own terms.
	p.printf("\n🐍 Provisioning virtual environment\n")
	env := venv.New(backendRoot, plan.VenvDir)
	result.VenvPath = env.Path()

	createRes, err := env.Create(ctx, p.runner, py.Binary)
	if err != nil {
		result.Duration = time.Since(started)
		return result, fmt.Errorf("failed to run venv creation: %w", err)
	}
	if !createRes.Ok() {
		warning := fmt.Sprintf("venv creation exited %d: %s",
			createRes.ExitCode, strings.TrimSpace(createRes.Stderr))
		result.Warnings = append(result.Warnings, warning)
		p.printf("⚠ %s\n", warning)
		p.log.Warn("venv creation exited non-zero", zap.Int("exit_code", createRes.ExitCode))
	} else {
		p.printf("✓ Virtual environment ready at %s\n", env.Path())
	}

	// Step 5: dependency installation inside the environment.
	p.printf("\n📦 Installing dependencies\n")
	if upgradeRes, err := env.UpgradePip(ctx, p.runner); err != nil {
		result.Duration = time.Since(started)
		return result, fmt.Errorf("failed to run pip upgrade: %w", err)
	} else if !upgradeRes.Ok() {
		warning := fmt.Sprintf("pip self-upgrade exited %d", upgradeRes.ExitCode)
		result.Warnings = append(result.Warnings, warning)
		p.printf("⚠ %s\n", warning)
	}

	for _, manifest := range plan.Manifests {
		manifestPath := filepath.Join(backendRoot, manifest.File)
		if _, statErr := os.Stat(manifestPath); statErr != nil {
			result.SkippedManifests = append(result.SkippedManifests, manifest.File)
			p.printf("• %s manifest %s not found — skipping\n", manifest.Role, manifest.File)
			p.log.Info("manifest missing, skipped",
				zap.String("role", manifest.Role),
				zap.String("file", manifest.File))
			continue
		}

		installRes, err := env.InstallManifest(ctx, p.runner, manifest.File)
		if err != nil {
			result.Duration = time.Since(started)
			return result, fmt.Errorf("failed to run pip install for %s: %w", manifest.File, err)
		}
		if !installRes.Ok() {
			result.Duration = time.Since(started)
			return result, fmt.Errorf("install of %s failed (exit %d): %s",
				manifest.File, installRes.ExitCode, strings.TrimSpace(installRes.Stderr))
		}
		result.InstalledManifests = append(result.InstalledManifests, manifest.File)
		p.printf("✓ Installed %s dependencies (%s)\n", manifest.Role, manifest.File)
	}

	// Step 6: seed-once configuration.
	p.printf("\n⚙️ Seeding configuration\n")
	result.EnvSeed, err = scaffold.SeedEnv(backendRoot, plan.EnvTemplate, plan.EnvFile)
	if err != nil {
		result.Duration = time.Since(started)
		return result, err
	}
	switch result.EnvSeed {
	case scaffold.Seeded:
		p.printf("✓ Created %s from %s\n", plan.EnvFile, plan.EnvTemplate)
		p.printf("  ⚠ Remember to edit %s with your real settings\n",
			filepath.Join(plan.BackendRoot, plan.EnvFile))
	case scaffold.SkippedLiveExists:
		p.printf("• %s already exists — skipping\n", plan.EnvFile)
	case scaffold.SkippedNoTemplate:
		p.printf("• no %s template — skipping\n", plan.EnvTemplate)
	}

	// Step 7: verification. Purely observational; zero matches is fine.
	p.printf("\n🔍 Verification\n")
	version, matches, verr := p.verify(ctx, py.Binary, env)
	if verr != nil {
		warning := fmt.Sprintf("verification incomplete: %v", verr)
		result.Warnings = append(result.Warnings, warning)
		p.printf("⚠ %s\n", warning)
	} else {
		p.printf("✓ %s\n", version)
		for _, line := range matches {
			p.printf("  %s\n", line)
		}
	}
	result.PackageMatches = matches

	result.Duration = time.Since(started)
	p.printSummary(result)
	p.log.Info("bootstrap completed",
		zap.String("run_id", result.RunID),
		zap.Duration("duration", result.Duration),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// Verify runs the verification step on its own against an existing
// workspace: interpreter version plus the filtered package listing.
func (p *Pipeline) Verify(ctx context.Context) (string, []string, error) {
	plan := p.cfg.Plan
	backendRoot := filepath.Join(p.cfg.Workspace, plan.BackendRoot)

	py, err := pyruntime.Detect(ctx, p.runner, plan.Interpreters)
	if err != nil {
		return "", nil, err
	}
	return p.verify(ctx, py.Binary, venv.New(backendRoot, plan.VenvDir))
}

func (p *Pipeline) verify(ctx context.Context, interpreter string, env *venv.Env) (string, []string, error) {
	version, err := pyruntime.Version(ctx, p.runner, interpreter)
	if err != nil {
		return "", nil, err
	}

	lines, err := env.ListPackages(ctx, p.runner)
	if err != nil {
		return version, nil, err
	}
	return version, venv.FilterPackages(lines, p.cfg.Plan.ExpectedPackages), nil
}

func (p *Pipeline) reportEntry(e scaffold.Entry) {
	if e.Existed {
		p.printf("• %s already exists\n", e.Path)
	} else {
		p.printf("✓ Created %s\n", e.Path)
	}
}

func (p *Pipeline) printSummary(result *Result) {
	created := 0
	for _, e := range result.Directories {
		if !e.Existed {
			created++
		}
	}
	files := 0
	for _, e := range result.MarkerFiles {
		if !e.Existed {
			files++
		}
	}

	p.printf("\n%s\n", strings.Repeat("═", 60))
	p.printf("✅ BOOTSTRAP COMPLETE\n")
	p.printf("%s\n", strings.Repeat("═", 60))
	p.printf("\n📂 Directories created: %d/%d | markers created: %d/%d\n",
		created, len(result.Directories), files, len(result.MarkerFiles))
	p.printf("📦 Manifests installed: %d | skipped: %d\n",
		len(result.InstalledManifests), len(result.SkippedManifests))
	p.printf("⏱️ Duration: %.2fs\n", result.Duration.Seconds())

	if len(result.Warnings) > 0 {
		p.printf("\n⚠️ Warnings:\n")
		for _, w := range result.Warnings {
			p.printf("   - %s\n", w)
		}
	}

	p.printf("\n%s\n", strings.Repeat("─", 60))
	p.printf("💡 Next steps:\n")
	p.printf("   • Edit %s with your real settings\n",
		filepath.Join(p.cfg.Plan.BackendRoot, p.cfg.Plan.EnvFile))
	p.printf("   • Activate the environment: %s\n", activateHint(p.cfg.Plan))
	p.printf("   • Start the backend: uvicorn app.main:app --reload\n")
	p.printf("%s\n", strings.Repeat("─", 60))
}

func activateHint(plan config.Plan) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(plan.BackendRoot, plan.VenvDir, "Scripts", "activate")
	}
	return "source " + filepath.Join(plan.BackendRoot, plan.VenvDir, "bin", "activate")
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
