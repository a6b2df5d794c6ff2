package middleware

import "strings"

// shouldBypass reports whether a request path is excluded from caching.
//
// A non-empty Explicit list switches the filter to allowlist mode: only
// matching paths cache and Disabled is not consulted at all. Otherwise any
// matching Disabled prefix bypasses. Matching is a plain string-prefix test,
// not segment-aware: "/auth" also matches "/authenticate". Existing
// deployments key off that, so it stays.
func shouldBypass(path string, cfg Config) bool {
	if !cfg.Enabled {
		return true
	}

	if len(cfg.Explicit) > 0 {
		for _, prefix := range cfg.Explicit {
			if strings.HasPrefix(path, prefix) {
				return false
			}
		}
		return true
	}

	for _, prefix := range cfg.Disabled {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
