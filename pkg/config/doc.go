// Package config defines the YAML configuration for a gavel deployment.
//
// The root Config has one section per subsystem: rule source, engine,
// audit storage, retention, and telemetry. Loading starts from
// DefaultConfig and unmarshals the file over it, so absent keys keep
// their defaults and explicit values, including false, win.
//
// # Basic Usage
//
//	cfg, err := config.LoadFromFile("gavel.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// LoadFromFile validates before returning. Validation failures come
// back as a *ValidationError listing every offending field:
//
//	var verr *config.ValidationError
//	if errors.As(err, &verr) {
//	    for _, fe := range verr.Errors {
//	        fmt.Println(fe.Field, fe.Message)
//	    }
//	}
//
// Environment variables are not a configuration source; the host
// runtime owns that concern and can overwrite fields after loading.
package config
