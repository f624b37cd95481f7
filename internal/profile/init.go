package profile

import "fmt"

// InitProfile returns a commented YAML starter template for a new profile.
func InitProfile(name string) string {
	return fmt.Sprintf(`name: %s
description: Custom scrub profile

# Extra person names and facility keywords. Matching ignores case and
# treats any run of whitespace as one space.
names: []
#   - Meredith Grey
keywords: []
#   - Lakeside Rehab

# Bare digit runs of this length are redacted as [MRN].
# mrn_min_length: 6
# mrn_max_length: 10

# Categories left in the clear, e.g. DATE, REL_DATE, ZIP, PERSON.
skip: []

# Also redact INSURANCE, LICENSE, VEHICLE, DEVICE and IP.
safe_harbor: false
`, name)
}
