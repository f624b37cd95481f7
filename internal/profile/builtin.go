package profile

import _ "embed"

//go:embed profiles/default.yaml
var defaultYAML []byte

//go:embed profiles/safe-harbor.yaml
var safeHarborYAML []byte

//go:embed profiles/limited-data-set.yaml
var limitedDataSetYAML []byte

//go:embed profiles/strict.yaml
var strictYAML []byte

// builtinProfiles maps profile names to their embedded YAML content.
var builtinProfiles = map[string][]byte{
	"default":          defaultYAML,
	"safe-harbor":      safeHarborYAML,
	"limited-data-set": limitedDataSetYAML,
	"strict":           strictYAML,
}
