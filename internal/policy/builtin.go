package policy

import "sync"

// builtinRules is the canonical catalog. Order matters: the first matching
// block rule is the one reported, so more specific destructive patterns
// come before broader ones.
var builtinRules = []Rule{
	// Destructive file operations
	{Pattern: `rm\s+(-[rf]+\s+)*[/\\](\s|$)`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Deleting root directory"},
	{Pattern: `rm\s+-rf\s+/\w+\s*$`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Deleting top-level system directory"},
	{Pattern: `rm\s+-rf\s+\*`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Recursive delete with wildcard"},
	{Pattern: `format\s+[a-zA-Z]:`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Formatting drive"},
	{Pattern: `mkfs\s+`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Creating filesystem (destructive)"},
	{Pattern: `dd\s+.*of=/dev/`, Category: CategoryDestructiveFS, Tier: TierBlock, Message: "Writing directly to device"},

	// Git destructive operations
	{Pattern: `git\s+push\s+.*--force\s+.*main`, Category: CategoryVCSDestructive, Tier: TierBlock, Message: "Force push to main branch"},
	{Pattern: `git\s+push\s+.*--force\s+.*master`, Category: CategoryVCSDestructive, Tier: TierBlock, Message: "Force push to master branch"},
	{Pattern: `git\s+reset\s+--hard\s+origin`, Category: CategoryVCSDestructive, Tier: TierBlock, Message: "Hard reset to origin"},
	{Pattern: `git\s+clean\s+-fd`, Category: CategoryVCSDestructive, Tier: TierBlock, Message: "Cleaning untracked files forcefully"},

	// Credential exposure
	{Pattern: `echo\s+.*API_KEY.*\|`, Category: CategoryCredential, Tier: TierBlock, Message: "Piping API key"},
	{Pattern: `curl\s+.*-d.*password`, Category: CategoryCredential, Tier: TierBlock, Message: "Sending password in curl"},
	{Pattern: `cat\s+.*\.env\s*\|`, Category: CategoryCredential, Tier: TierBlock, Message: "Piping .env file"},

	// System modifications
	{Pattern: `chmod\s+777\s+/`, Category: CategorySystemMod, Tier: TierBlock, Message: "Setting 777 permissions on root"},
	{Pattern: `chown\s+-R\s+.*:.*\s+/`, Category: CategorySystemMod, Tier: TierBlock, Message: "Recursive chown on root"},
	{Pattern: `shutdown`, Category: CategorySystemMod, Tier: TierBlock, Message: "System shutdown"},
	{Pattern: `reboot`, Category: CategorySystemMod, Tier: TierBlock, Message: "System reboot"},
	{Pattern: `halt`, Category: CategorySystemMod, Tier: TierBlock, Message: "System halt"},

	// Registry/boot configuration (Windows)
	{Pattern: `reg\s+delete\s+HKLM`, Category: CategorySystemMod, Tier: TierBlock, Message: "Deleting system registry"},
	{Pattern: `bcdedit`, Category: CategorySystemMod, Tier: TierBlock, Message: "Modifying boot configuration"},

	// Network dangers
	{Pattern: `iptables\s+-F`, Category: CategoryNetwork, Tier: TierBlock, Message: "Flushing firewall rules"},
	{Pattern: `netsh\s+.*firewall.*disable`, Category: CategoryNetwork, Tier: TierBlock, Message: "Disabling firewall"},

	// Warn tier: allowed, but surfaced to the caller
	{Pattern: `sudo\s+`, Category: CategorySystemMod, Tier: TierWarn, Message: "Using sudo"},
	{Pattern: `rm\s+-rf\s+`, Category: CategoryDestructiveFS, Tier: TierWarn, Message: "Recursive force delete"},
	{Pattern: `git\s+push\s+--force`, Category: CategoryVCSDestructive, Tier: TierWarn, Message: "Force push (not to main)"},
	{Pattern: `pip\s+install\s+--user`, Category: CategorySystemMod, Tier: TierWarn, Message: "User pip install"},
	{Pattern: `npm\s+install\s+-g`, Category: CategorySystemMod, Tier: TierWarn, Message: "Global npm install"},
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	reg, err := NewRegistry(builtinRules)
	if err != nil {
		// Built-in patterns are fixed at compile time; failing to compile
		// them is a programmer error, same contract as regexp.MustCompile.
		panic("policy: built-in rules failed to compile: " + err.Error())
	}
	return reg
})

// Default returns the shared registry holding the built-in catalog.
// The registry is immutable, so sharing it across goroutines is safe.
func Default() *Registry {
	return defaultRegistry()
}
