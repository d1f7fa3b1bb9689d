package analysis

import (
	"os"

	"gopkg.in/yaml.v3"

	"marketlens/pkg/errors"
)

// ApplyRules overlays YAML rule overrides onto cfg.
// Keys absent from the document keep their current value.
func ApplyRules(data []byte, cfg *Config) error {
	var sections struct {
		Regime  yaml.Node `yaml:"regime"`
		Weights yaml.Node `yaml:"weights"`
		Bias    yaml.Node `yaml:"bias"`
		Gate    yaml.Node `yaml:"gate"`
	}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "parse rules: %v", err)
	}

	overlays := []struct {
		name string
		node *yaml.Node
		dst  interface{}
	}{
		{"regime", &sections.Regime, &cfg.Regime},
		{"weights", &sections.Weights, &cfg.Weights},
		{"bias", &sections.Bias, &cfg.Bias},
		{"gate", &sections.Gate, &cfg.Gate},
	}
	for _, o := range overlays {
		if o.node.Kind == 0 {
			continue
		}
		if err := o.node.Decode(o.dst); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "rules section %s: %v", o.name, err)
		}
	}
	return nil
}

// LoadRules reads a rules file and overlays it onto cfg
func LoadRules(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read rules file %s", path)
	}
	return ApplyRules(data, cfg)
}
