package config

// HostConfig holds per-host configuration for a single crawled host.
// This allows customizing crawl behavior per site.
type HostConfig struct {
	// Cookie is an HTTP cookie to use when crawling this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxHops overrides the global hop limit for this host.
	// If zero, the global MaxHops is used.
	MaxHops int `yaml:"maxHops,omitempty"`

	// IgnorePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns are URL patterns to follow during crawling.
	// If specified, only URLs matching these patterns are crawled.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .webcorpus configuration file.
type File struct {
	// Hosts maps hostnames to their per-host configurations.
	// Keys should be the hostname without the protocol (e.g., "example.com").
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults contains default host configuration applied to all hosts
	// unless overridden in the host-specific configuration.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// GetHostConfig returns the configuration for a specific hostname.
// It merges the host-specific configuration with defaults.
func (cf *File) GetHostConfig(host string) HostConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with host-specific configuration if present
	if hostConfig, ok := cf.Hosts[host]; ok {
		if hostConfig.Cookie != "" {
			result.Cookie = hostConfig.Cookie
		}
		if hostConfig.MaxHops != 0 {
			result.MaxHops = hostConfig.MaxHops
		}
		if len(hostConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range hostConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(hostConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = hostConfig.IgnorePatterns
		}
		if len(hostConfig.FollowPatterns) > 0 {
			result.FollowPatterns = hostConfig.FollowPatterns
		}
	}

	return result
}
