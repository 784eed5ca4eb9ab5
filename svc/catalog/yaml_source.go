package catalog

import (
	"context"
	"errors"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// yamlSource loads plans from a versioned YAML artifact, e.g.:
//
//	plans:
//	  - id: pro-monthly
//	    name: Pro Monthly
//	    price_cents: 1299
//	    currency: USD
//	    cycle: monthly
//	    features:
//	      - Unlimited code analysis
type yamlSource struct {
	fsys fs.FS
	path string
}

type yamlCatalog struct {
	Plans []Plan `yaml:"plans"`
}

// NewYAMLSource returns a Source that reads the plan catalog from a YAML
// file inside fsys. The file is read on every Load so a rebuilt Catalog
// picks up a redeployed artifact.
func NewYAMLSource(fsys fs.FS, path string) Source {
	return &yamlSource{fsys: fsys, path: path}
}

func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	raw, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	plans := make(map[string]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		plans[plan.ID] = plan
	}
	return plans, nil
}
