// Package config defines the format-agnostic settings model for the
// application. Settings are a mapping from (section, key) to string values,
// looked up by step builders and the script renderer. Concrete loaders, such
// as for HCL, are provided in separate packages.
package config
