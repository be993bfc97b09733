// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/osfs"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/logging"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/server"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/unpack"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() (string, error)
	DefaultConfig() (*config.Config, error)
}

// ExportService stores packs in the pack history.
type ExportService interface {
	Save(cfg *config.Config, p *pack.Pack) (pack.SaveResult, error)
	ListSlugs(cfg *config.Config) ([]string, error)
}

// UnpackService verifies and reads stored packs.
type UnpackService interface {
	Verify(cfg *config.Config, slug, version string) error
	Extract(cfg *config.Config, opts unpack.ExtractOptions) (string, error)
	ListVersions(cfg *config.Config, slug string) ([]manifest.PackEntry, error)
	ListEntries(cfg *config.Config, slug, version string) ([]ports.FileInfo, error)
	Manifest(cfg *config.Config, slug string) (*manifest.Manifest, error)
}

// ServerRunner runs the HTTP server until ctx is cancelled.
type ServerRunner interface {
	Run(ctx context.Context, cfg *config.Config) error
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	ExportSvc ExportService
	UnpackSvc UnpackService
	ServerSvc ServerRunner
	FS        ports.FileSystem

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(int) {},
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error)          { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error          { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() (string, error)            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() (*config.Config, error) { return config.DefaultConfig() }

// defaultServerRunner serves with production dependencies.
type defaultServerRunner struct{}

func (d *defaultServerRunner) Run(ctx context.Context, cfg *config.Config) error {
	return server.NewDefault(cfg).Run(ctx)
}

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) exportSvc() ExportService {
	if c.ExportSvc != nil {
		return c.ExportSvc
	}
	return pack.NewDefaultExporter()
}

func (c *CLI) unpackSvc() UnpackService {
	if c.UnpackSvc != nil {
		return c.UnpackSvc
	}
	return unpack.NewDefaultService()
}

func (c *CLI) serverSvc() ServerRunner {
	if c.ServerSvc != nil {
		return c.ServerSvc
	}
	return &defaultServerRunner{}
}

func (c *CLI) fs() ports.FileSystem {
	if c.FS != nil {
		return c.FS
	}
	return osfs.New()
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	if len(c.Args) < 2 {
		// No command - would launch TUI, but we skip that for CLI testing
		fmt.Fprintln(c.Out, "No command specified. Use 'autotube help' for usage.")
		return
	}

	switch c.Args[1] {
	case "serve":
		c.Serve()
	case "pack":
		c.RunPack()
	case "packs":
		c.ListPacks()
	case "list":
		c.ListVersions()
	case "verify":
		c.RunVerify()
	case "extract":
		c.RunExtract()
	case "entries":
		c.ListEntries()
	case "init":
		c.InitConfig()
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "autotube v%s\n", c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", c.Args[1])
		c.PrintUsage()
		c.Exit(1)
	}
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	fmt.Fprintln(c.Out, `autotube - Video Content Pack Exporter

Usage:
  autotube                                 Launch interactive TUI
  autotube ui                              Launch interactive TUI
  autotube serve [--addr=:8080] [--archive]
                                           Serve the export API
  autotube pack [--title=] [--script=] [--description=] [--tags=a,b]
                [--thumbnail=] [--tts=] [--srt=] [--from=request.json] [--out=path.zip]
                                           Build a pack (saved to history unless --out)
  autotube packs                           List stored packs
  autotube list <slug>                     List all versions of a pack
  autotube entries <slug> [version]        List the files inside a pack version
  autotube verify <slug> [version]         Verify pack integrity
  autotube extract <slug> <dest> [--version=YYYYMMDD-HHMMSS] [--overwrite]
                                           Extract a pack version
  autotube init                            Create default config file
  autotube version, -v                     Show version
  autotube help, -h                        Show this help

Config: ~/.autotube/config.yaml`)
}

func (c *CLI) loadConfig() (*config.Config, bool) {
	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return nil, false
	}
	return cfg, true
}

// InitConfig creates the default config file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	cfg, err := svc.DefaultConfig()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	path, err := svc.ConfigPath()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", path)
}

// Serve runs the HTTP server until interrupted.
func (c *CLI) Serve() {
	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	for _, arg := range c.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--addr="):
			cfg.Server.Addr = strings.TrimPrefix(arg, "--addr=")
		case arg == "--archive":
			cfg.Server.ArchiveExports = true
		}
	}

	logging.Setup(c.Err, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.Out, "%s Serving on %s\n", c.cyan("=>"), cfg.Server.Addr)
	if err := c.serverSvc().Run(ctx, cfg); err != nil {
		fmt.Fprintf(c.Err, "Server error: %v\n", err)
		c.Exit(1)
	}
}

// parsePackRequest builds a request from --from and the field flags.
// Field flags override values read from --from.
func (c *CLI) parsePackRequest(args []string) (pack.Request, string, error) {
	var req pack.Request
	var out string

	for _, arg := range args {
		if from, ok := strings.CutPrefix(arg, "--from="); ok {
			data, err := c.fs().ReadFile(from)
			if err != nil {
				return req, "", fmt.Errorf("reading %s: %w", from, err)
			}
			req, err = pack.ParseRequest(data)
			if err != nil {
				return req, "", fmt.Errorf("parsing %s: %w", from, err)
			}
		}
	}

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return req, "", fmt.Errorf("unknown flag: %s", arg)
		}
		switch name {
		case "--title":
			req.Title = value
		case "--script":
			req.Script = value
		case "--description":
			req.Description = value
		case "--tags":
			req.Tags = splitTags(value)
		case "--thumbnail":
			req.ThumbnailText = value
		case "--tts":
			req.TTS = value
		case "--srt":
			req.SRT = value
		case "--out":
			out = value
		case "--from":
		default:
			return req, "", fmt.Errorf("unknown flag: %s", name)
		}
	}
	return req, out, nil
}

// splitTags splits a comma-separated list, dropping blanks. An empty value
// yields an empty, non-nil list.
func splitTags(value string) []string {
	tags := []string{}
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// RunPack builds a pack and writes it to --out or saves it to the history.
func (c *CLI) RunPack() {
	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	req, out, err := c.parsePackRequest(c.Args[2:])
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	p := pack.Build(req, cfg.Defaults)

	if out != "" {
		path, err := config.ExpandPath(out)
		if err != nil {
			fmt.Fprintf(c.Err, "Error: %v\n", err)
			c.Exit(1)
			return
		}
		if err := c.fs().WriteFile(path, p.Data, 0644); err != nil {
			fmt.Fprintf(c.Err, "Error writing pack: %v\n", err)
			c.Exit(1)
			return
		}
		fmt.Fprintf(c.Out, "%s Wrote %s %s\n", c.green("*"), path, c.yellow(pack.FormatSize(int64(len(p.Data)))))
		fmt.Fprintf(c.Out, "  %s\n", c.gray(p.Digest.String()))
		return
	}

	res, err := c.exportSvc().Save(cfg, p)
	if err != nil {
		fmt.Fprintf(c.Err, "Error saving pack: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s %s %s %s\n",
		c.green("*"),
		res.Slug,
		strings.TrimSuffix(res.File, ".zip"),
		c.yellow(pack.FormatSize(res.Size)))
	fmt.Fprintf(c.Out, "  %s\n", c.gray(res.Path))
	if len(res.Pruned) > 0 {
		fmt.Fprintf(c.Out, "  %s pruned %d old version(s)\n", c.yellow("-"), len(res.Pruned))
	}
}

// ListPacks lists the stored packs.
func (c *CLI) ListPacks() {
	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	slugs, err := c.exportSvc().ListSlugs(cfg)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	if len(slugs) == 0 {
		fmt.Fprintf(c.Out, "No packs found in %s\n", cfg.OutputDir)
		return
	}

	fmt.Fprintf(c.Out, "  %-30s %8s %-20s %s\n", "SLUG", "VERSIONS", "LATEST", "TITLE")
	fmt.Fprintf(c.Out, "  %-30s %8s %-20s %s\n", "----", "--------", "------", "-----")

	for _, slug := range slugs {
		m, err := c.unpackSvc().Manifest(cfg, slug)
		if err != nil {
			fmt.Fprintf(c.Out, "  %-30s %s\n", slug, c.red(err.Error()))
			continue
		}
		latest := c.gray("-")
		if e := m.Latest(); e != nil {
			latest = e.Version()
		}
		fmt.Fprintf(c.Out, "  %-30s %8d %-20s %s\n", slug, len(m.Packs), latest, m.Title)
	}
}

// RunVerify verifies a stored pack.
func (c *CLI) RunVerify() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Out, "Usage: autotube verify <slug> [version]")
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	slug := c.Args[2]
	version := ""
	if len(c.Args) > 3 {
		version = c.Args[3]
	}

	if err := c.unpackSvc().Verify(cfg, slug, version); err != nil {
		fmt.Fprintf(c.Err, "Verification failed: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s Digest and checksums verified for %s\n", c.green("*"), slug)
}

// RunExtract extracts a stored pack version to a directory.
func (c *CLI) RunExtract() {
	if len(c.Args) < 4 {
		fmt.Fprintln(c.Out, "Usage: autotube extract <slug> <dest> [--version=YYYYMMDD-HHMMSS] [--overwrite]")
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	opts := unpack.ExtractOptions{
		Slug: c.Args[2],
		Dest: c.Args[3],
	}

	// Parse flags
	for _, arg := range c.Args[4:] {
		switch {
		case arg == "--overwrite":
			opts.Overwrite = true
		case strings.HasPrefix(arg, "--version="):
			opts.Version = strings.TrimPrefix(arg, "--version=")
		}
	}

	if opts.Overwrite {
		fmt.Fprintf(c.Out, "%s Extracting %s (replacing %s)...\n", c.yellow("!"), opts.Slug, opts.Dest)
	} else {
		fmt.Fprintf(c.Out, "Extracting %s...\n", opts.Slug)
	}

	file, err := c.unpackSvc().Extract(cfg, opts)
	if err != nil {
		fmt.Fprintf(c.Err, "Extract failed: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s Extracted %s %s to %s\n", c.green("*"), opts.Slug, strings.TrimSuffix(file, ".zip"), opts.Dest)
}

// ListVersions lists all versions of a pack.
func (c *CLI) ListVersions() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Out, "Usage: autotube list <slug>")
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	slug := c.Args[2]

	versions, err := c.unpackSvc().ListVersions(cfg, slug)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	if len(versions) == 0 {
		fmt.Fprintf(c.Out, "No versions found for %s\n", slug)
		return
	}

	fmt.Fprintf(c.Out, "Versions of %s:\n\n", c.cyan(slug))
	fmt.Fprintf(c.Out, "  %-20s %10s %8s %s\n", "VERSION", "SIZE", "ENTRIES", "DIGEST")
	fmt.Fprintf(c.Out, "  %-20s %10s %8s %s\n", "-------", "----", "-------", "------")

	for _, v := range versions {
		fmt.Fprintf(c.Out, "  %-20s %10s %8d %s\n",
			v.Version(),
			pack.FormatSize(v.SizeBytes),
			v.EntryCount,
			shortDigest(v))
	}
}

// shortDigest returns the first 12 hex characters of the version digest.
func shortDigest(v manifest.PackEntry) string {
	if v.Digest.Validate() != nil {
		return "-"
	}
	hex := v.Digest.Encoded()
	if len(hex) > 12 {
		hex = hex[:12]
	}
	return hex
}

// ListEntries lists the files inside a stored pack version.
func (c *CLI) ListEntries() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Out, "Usage: autotube entries <slug> [version]")
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	slug := c.Args[2]
	version := ""
	if len(c.Args) > 3 {
		version = c.Args[3]
	}

	files, err := c.unpackSvc().ListEntries(cfg, slug, version)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "  %-20s %10s %s\n", "NAME", "SIZE", "CRC32")
	fmt.Fprintf(c.Out, "  %-20s %10s %s\n", "----", "----", "-----")
	for _, f := range files {
		fmt.Fprintf(c.Out, "  %-20s %10d %08x\n", f.Name, f.Size, f.CRC32)
	}
}
