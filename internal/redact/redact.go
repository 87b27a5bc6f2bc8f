// Package redact scrubs credential-shaped text before it reaches the
// audit log. Matching is best-effort; the log is append-only and may be
// synced off-host, so anything that looks like a secret gets masked.
package redact

import "regexp"

var secretPatterns = []*regexp.Regexp{
	// key=value style assignments for common secret names
	regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|password|passwd)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),

	// Provider-specific token shapes
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`),
	regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`),

	// Bearer tokens and basic-auth URLs
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),

	// PEM private key headers
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
}

const mask = "[REDACTED]"

// Redact masks anything secret-shaped in the input.
func Redact(input string) string {
	out := input
	for _, re := range secretPatterns {
		out = re.ReplaceAllString(out, mask)
	}
	return out
}

// RedactArgs masks each argument independently.
func RedactArgs(args []string) []string {
	if args == nil {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Redact(a)
	}
	return out
}
