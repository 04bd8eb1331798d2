package commands

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/forja/internal/config"
	"github.com/okra-platform/forja/internal/generators"
)

//go:embed templates/*
var templatesFS embed.FS

const exampleTemplate = "templates/example/Services.cs"

type InitOptions struct {
	ProjectName string
	Format      string
	Generators  []string
	Example     bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	dir         string
	filesystem  FileSystem
	templatesFS fs.FS
	output      Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(dir string) *InitCommand {
	return &InitCommand{
		dir:         dir,
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		output:      &defaultOutput{},
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(".")
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	for _, name := range config.FileNames {
		if _, err := ic.filesystem.Stat(filepath.Join(ic.dir, name)); err == nil {
			return fmt.Errorf("project already initialized: %s exists", name)
		}
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	configName, err := ic.writeConfig(options)
	if err != nil {
		return err
	}
	ic.output.Printf("✅ Created %s for %s\n", configName, options.ProjectName)

	if options.Example {
		path, err := ic.writeExample(options.ProjectName)
		if err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
		ic.output.Printf("📝 Added example sources in %s\n", path)
	}
	ic.output.Println("Run `forja generate` to generate sources.")
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{Format: "json", Example: true}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	var generatorOptions []huh.Option[string]
	for _, name := range generators.DefaultRegistry.Names() {
		generatorOptions = append(generatorOptions, huh.NewOption(name, name).Selected(true))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Name of the project, also used as the example namespace").
				Value(&options.ProjectName).
				Validate(validateProjectName),

			huh.NewSelect[string]().
				Title("Config format").
				Options(
					huh.NewOption("JSON (forja.json)", "json"),
					huh.NewOption("TOML (forja.toml)", "toml"),
				).
				Value(&options.Format),

			huh.NewMultiSelect[string]().
				Title("Generators").
				Description("Leave all selected to run every generator").
				Options(generatorOptions...).
				Value(&options.Generators),

			huh.NewConfirm().
				Title("Add example sources?").
				Value(&options.Example),
		),
	)
}

func validateProjectName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("project name cannot be empty")
	}
	if Namespace(s) == "" {
		return fmt.Errorf("project name %q has no letters or digits", s)
	}
	return nil
}

func (ic *InitCommand) writeConfig(options *InitOptions) (string, error) {
	if err := validateProjectName(options.ProjectName); err != nil {
		return "", err
	}

	cfg := config.Default(options.ProjectName)
	// Selecting every generator is stored as the empty default.
	if len(options.Generators) != len(generators.DefaultRegistry.Names()) {
		cfg.Generators = options.Generators
	}
	if err := cfg.Validate(generators.DefaultRegistry.Names()); err != nil {
		return "", err
	}

	name := "forja.json"
	if options.Format == "toml" {
		name = "forja.toml"
	}
	data, err := cfg.Marshal(name)
	if err != nil {
		return "", err
	}
	if err := ic.filesystem.WriteFile(filepath.Join(ic.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}

func (ic *InitCommand) writeExample(projectName string) (string, error) {
	data, err := fs.ReadFile(ic.templatesFS, exampleTemplate)
	if err != nil {
		return "", err
	}
	source := strings.ReplaceAll(string(data), "{{namespace}}", Namespace(projectName))

	dir := filepath.Join(ic.dir, "src")
	if err := ic.filesystem.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(exampleTemplate))
	if _, err := ic.filesystem.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := ic.filesystem.WriteFile(path, []byte(source), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Namespace turns a project name like "my-shop" into a C# namespace like
// "MyShop". Dots separate namespace segments.
func Namespace(projectName string) string {
	var segments []string
	for _, segment := range strings.Split(projectName, ".") {
		var b strings.Builder
		upper := true
		for _, r := range segment {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}
			if b.Len() == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		}
		if b.Len() > 0 {
			segments = append(segments, b.String())
		}
	}
	return strings.Join(segments, ".")
}
