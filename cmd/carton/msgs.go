package carton

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A dotfiles manager with a conditional configuration database"
	MsgGetShort        = "Print a configuration value"
	MsgGetLong         = "Get prints the value stored under the given keys as YAML. Without keys the whole database is printed."
	MsgSetShort        = "Store a configuration value"
	MsgUnsetShort      = "Remove a configuration value"
	MsgUnpackShort     = "Link configured files into place"
	MsgUnpackLong      = "Unpack links every entry of the \"install\" key to its reference in the refs directory, and removes links carton created earlier that are no longer configured."
	MsgModulesShort    = "List loaded modules"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Output
	MsgLinked         = "✔ Linked %s\n"
	MsgRemoved        = "✔ Removed %s\n"
	MsgNothingToDo    = "Nothing to unpack."
	MsgRemovedNothing = "Key %s was not set.\n"
	MsgVersionFormat  = "carton version %s\n  commit: %s\n  built:  %s\n"
	MsgStateEnabled   = "enabled"
	MsgStateDisabled  = "disabled"

	// Table headers
	MsgHeaderModule = "MODULE"
	MsgHeaderState  = "STATE"
	MsgHeaderHooks  = "HOOKS"
	MsgHeaderProcs  = "PROCS"

	// Error messages
	MsgErrOpen          = "failed to start carton: %w"
	MsgErrKeyNotSet     = "key '%s' is not set"
	MsgErrSetArgs       = "set needs at least one key and a value"
	MsgErrParseValue    = "cannot parse value '%s': %w"
	MsgErrNoCommand     = "no command specified"
	MsgErrUnexpectedRes = "unexpected result from '%s': %T"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Directory holding the repository and state (default $CARTON_PATH or XDG data dir)"
	MsgFlagDisable  = "Load a module disabled (repeatable)"
	MsgFlagDatabase = "Configuration database file name inside the repository (.json, .yaml or .toml)"
	MsgFlagRaw      = "Read the stored tree instead of the view for this machine"
	MsgFlagIf       = "Condition the value applies under (repeatable, nests in order)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/set-example.txt
	msgSetExampleRaw string
	MsgSetExample    = strings.TrimRight(msgSetExampleRaw, "\n")
)
