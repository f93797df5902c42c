// Package config defines the explicit configuration of an analysis run.
//
// Every tunable of the engine lives in Config with a documented default
// (see Default). A YAML file may override any subset of fields; unknown
// fields are rejected so that typos fail loudly. The merged configuration
// is validated against an embedded CUE schema before use.
//
//	cfg, err := config.Load("analysis.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := engine.ComparePair(cfg, "run1", first, second, engine.Options{})
//
// The engine never consults flags or the environment; the CLI resolves
// them into a Config first.
package config
