// Package config handles loading and validating Birch Hill configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with BIRCHHILL_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Configuration is loaded once at startup and treated as read-only afterwards.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
