package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// Defaults returns the bundled reference data. The bundle is part of
// the binary, so a failure here is a build defect and panics at startup.
func Defaults() *Data {
	d := &Data{}
	mustLoad("fallback/plans.json", &d.Plans)
	mustLoad("fallback/countries.json", &d.Countries)
	mustLoad("fallback/lunch_types.json", &d.LunchOptions)
	mustLoad("fallback/testimonials.json", &d.Testimonials)
	return d
}

func mustLoad(name string, dst any) {
	raw, err := fallbackFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("catalog: missing bundled dataset %s: %v", name, err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(fmt.Sprintf("catalog: corrupt bundled dataset %s: %v", name, err))
	}
}
