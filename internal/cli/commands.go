// Package cli defines the dotsync command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dotsync/internal/version"
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/arthur-debert/dotsync/pkg/style"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/arthur-debert/dotsync/pkg/vcs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	verbosity    int
	dryRun       bool
	repo         string
	host         string
	noColor      bool
	settingsFile string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "dotsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Info(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			style.ConfigureColor(os.Stdout, opts.noColor)
			log.Debug().Str("command", cmd.Name()).Str("log_file", logging.LogFilePath()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	initTemplateFormatting()
	rootCmd.SetUsageTemplate(usageTemplate)

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.repo, "repo", "", MsgFlagRepo)
	flags.StringVar(&opts.host, "host", "", MsgFlagHost)
	flags.BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringVar(&opts.settingsFile, "settings", "", MsgFlagSettings)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newSyncIntoRepoCmd(opts))
	rootCmd.AddCommand(newSyncToHomeCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newGenconfigCmd(opts))

	return rootCmd
}

// app is everything a command needs, built from settings and flags
type app struct {
	settings *config.Settings
	paths    paths.Paths
	engine   *reconcile.Engine
	renderer *style.TerminalRenderer
	out      io.Writer
	errOut   io.Writer
}

func loadSettings(opts *globalOptions) (*config.Settings, error) {
	overrides := map[string]interface{}{}
	if opts.repo != "" {
		overrides["repo.root"] = opts.repo
	}
	if opts.host != "" {
		overrides["host.name"] = opts.host
	}
	settings, err := config.Load(config.LoadOptions{
		UserConfigPath: opts.settingsFile,
		Overrides:      overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadSettings, err)
	}
	return settings, nil
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	host, err := settings.Hostname()
	if err != nil {
		return nil, fmt.Errorf(MsgErrHostname, err)
	}

	p, err := paths.New(paths.Options{
		RepoRoot:   settings.Repo.Root,
		HomeDir:    settings.Home.Dir,
		ConfigFile: settings.Repo.ConfigFile,
		LedgerFile: settings.Repo.LedgerFile,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, p.RepoRoot())
	}

	var gateway vcs.Gateway = vcs.Noop{}
	if settings.VCS.Enabled {
		gateway = vcs.NewGit(vcs.GitOptions{
			Dir:     p.RepoRoot(),
			Command: settings.VCS.Command,
			Push:    settings.VCS.Push,
		})
	}

	fs := filesystem.NewOS()
	store := tracking.NewStore(fs, p, gateway)
	engine := reconcile.New(reconcile.Options{
		FS:      fs,
		Paths:   p,
		Store:   store,
		Gateway: gateway,
		Host:    host,
		DryRun:  opts.dryRun,
	})

	log.Info().
		Str("repo", p.RepoRoot()).
		Str("home", p.HomeDir()).
		Str("host", engine.Host()).
		Bool("dry_run", opts.dryRun).
		Bool("vcs", settings.VCS.Enabled).
		Msg("dotsync ready")

	return &app{
		settings: settings,
		paths:    p,
		engine:   engine,
		renderer: style.NewTerminalRenderer(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

// execute pulls, plans and applies. Problems are printed and turned into
// the returned error, with nothing copied.
func (a *app) execute(cmd *cobra.Command, build func() (*reconcile.Plan, error)) error {
	ctx := cmd.Context()
	if err := a.engine.Pull(ctx); err != nil {
		return err
	}

	plan, err := build()
	if err != nil {
		return err
	}
	if !plan.OK() {
		fmt.Fprintln(a.errOut, a.renderer.RenderProblems(plan.Problems))
		return plan.Err()
	}
	if a.engine.DryRun() {
		fmt.Fprintln(a.out, a.renderer.RenderPlan(plan))
	}

	result, err := a.engine.Apply(ctx, plan)
	if result != nil {
		fmt.Fprintln(a.out, a.renderer.RenderResult(result))
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "install [files...]",
		Short: MsgInstallShort,
		Long:  MsgInstallLong,
		Example: `  # Install every tracked file missing from home
  dotsync install

  # Install a single file
  dotsync install ~/.bashrc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.execute(cmd, func() (*reconcile.Plan, error) {
				return a.engine.PlanInstall(args)
			})
		},
	}
}

func newSyncIntoRepoCmd(opts *globalOptions) *cobra.Command {
	var forcePush bool
	cmd := &cobra.Command{
		Use:   "sync_installed_into_repo [files...]",
		Short: MsgSyncIntoRepoShort,
		Long:  MsgSyncIntoRepoLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.execute(cmd, func() (*reconcile.Plan, error) {
				return a.engine.PlanSyncHomeIntoRepo(args, forcePush)
			})
		},
	}
	cmd.Flags().BoolVar(&forcePush, "force-push", false, MsgFlagForcePush)
	return cmd
}

func newSyncToHomeCmd(opts *globalOptions) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "sync_repo_to_installed_files [files...]",
		Short: MsgSyncToHomeShort,
		Long:  MsgSyncToHomeLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.execute(cmd, func() (*reconcile.Plan, error) {
				return a.engine.PlanSyncRepoToHome(args, overwrite)
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, MsgFlagOverwrite)
	return cmd
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	var hostSpecific bool
	cmd := &cobra.Command{
		Use:   "add_files_into_repo files...",
		Short: MsgAddShort,
		Long:  MsgAddLong,
		Example: `  # Track a file on every host
  dotsync add_files_into_repo ~/.bashrc

  # Track this host's own version of a file
  dotsync add_files_into_repo --host-specific ~/.gitconfig`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.execute(cmd, func() (*reconcile.Plan, error) {
				return a.engine.PlanAdd(args, hostSpecific)
			})
		},
	}
	cmd.Flags().BoolVar(&hostSpecific, "host-specific", false, MsgFlagHostOnly)
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [files...]",
		Short: MsgStatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			report, err := a.engine.Status(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.renderer.RenderStatus(report))
			return nil
		},
	}
}

func newGenconfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenconfigShort,
		Long:  MsgGenconfigLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(opts)
			if err != nil {
				return err
			}
			content, err := config.GenerateConfigContent(settings)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}
