package spec

const (
	// Version represents the structured report format version
	// It tracks the shape of the JSON/YAML table output and the tool record schema
	// It should be updated when breaking changes are made to either
	Version = "1.0"
)
