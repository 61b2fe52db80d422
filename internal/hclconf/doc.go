// Package hclconf is the HCL-backed loader for the settings model. It acts
// as the bridge between raw `settings "<section>" { key = value }` blocks
// and the format-agnostic config.Model consumed by step builders.
package hclconf
