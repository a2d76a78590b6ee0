package cli

// Command descriptions
const (
	MsgRootShort = "Keep dotfiles in home and in a git repo in sync"
	MsgRootLong  = `dotsync tracks files in your home directory and the copies kept in a
version-controlled repository. Every command compares content hashes with the
hash recorded at the last sync and refuses to overwrite a file that changed on
the other side, reporting every conflict before copying anything.`

	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"

	MsgInstallShort = "Copy tracked files that are missing from home"
	MsgInstallLong  = `Install copies tracked files from the repo into your home directory.
Files that already exist in home are never replaced; use
sync_repo_to_installed_files for that.

Without arguments every tracked file is installed.`

	MsgSyncIntoRepoShort = "Copy home edits into the repo, then commit and push"
	MsgSyncIntoRepoLong  = `Copies home files over their repo copies. A repo copy that changed
since the last sync (for example after a pull) is a conflict unless
--force-push is given.

Without arguments every file synced before on this machine is selected.`

	MsgSyncToHomeShort = "Copy repo files over their home copies"
	MsgSyncToHomeLong  = `Copies repo files over their home copies. A home file that changed
since the last sync is a conflict unless --overwrite is given.

Without arguments every file synced before on this machine is selected.`

	MsgAddShort = "Start tracking files from home"
	MsgAddLong  = `Copies files from your home directory into the repo under a generated
name and records them in the mapping config, which is committed and pushed.

With --host-specific the files are tracked for this host only, under a
folder named after the host.`

	MsgStatusShort    = "Show how tracked files compare to the last sync"
	MsgGenconfigShort = "Print the default settings file"
	MsgGenconfigLong  = "Print the effective settings as TOML, every value commented out, ready to be saved as your user settings file."
)

// Flag descriptions
const (
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Show what would be copied without changing anything"
	MsgFlagRepo      = "Root of the dotfiles repository"
	MsgFlagHost      = "Host name used to resolve host-specific files"
	MsgFlagNoColor   = "Disable colored output"
	MsgFlagSettings  = "Settings file to read instead of the XDG default"
	MsgFlagForcePush = "Replace repo copies even if they changed since the last sync"
	MsgFlagOverwrite = "Replace home files even if they changed since the last sync"
	MsgFlagHostOnly  = "Track the files for this host only"
)

// Output
const (
	MsgVersionFormat = "dotsync version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	MsgFallbackWarning = `Warning: not in a git repository and no repo root configured.
Using current directory: %s
Pass --repo or set DOTSYNC_REPO_ROOT to pick the repository explicitly.

`
)

// Error messages
const (
	MsgErrLoadSettings = "failed to load settings: %w"
	MsgErrHostname     = "failed to determine host name: %w"
	MsgErrInitPaths    = "failed to initialize paths: %w"
)
