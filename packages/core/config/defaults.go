package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultEnvironment: "",
		EnvFile:            "",
		Timeout:            30000, // 30 seconds
		FollowRedirects:    nil,   // true via GetFollowRedirects
		MaxRedirects:       10,
		ValidateSSL:        nil, // true via GetValidateSSL
		Proxy:              "",
		Headers:            nil,
		Output:             "console",
	}
}
