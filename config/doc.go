// Package config loads tabkit service configuration.
//
// Values come from a YAML file, then a .env file, then the process
// environment, each layer overriding the previous one. Environment
// variables use the TABKIT_ prefix with underscores separating nesting
// levels, so TABKIT_STORAGE_BASE_PATH sets storage.base_path.
//
// # Usage
//
//	cfg, err := config.LoadConfig(config.WithConfigFile(path))
//	if err != nil {
//	    return err
//	}
//
// LoadConfig is Load followed by Config.ApplyDefaults and Config.Validate.
// Load alone fills any struct carrying mapstructure tags.
package config
