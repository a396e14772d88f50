// Package catalog holds the option tables shown by the demo apps: model
// names, chat presets, fact categories and the recipe/reply form choices.
//
// The defaults are embedded; a YAML file given by CATALOG_PATH is merged on
// top, so a deployment can swap model names without a rebuild.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"

	"github.com/spf13/viper"
)

//go:embed catalog.yaml
var defaultYAML []byte

// CustomPreset is the preset whose system prompt is typed by the user.
const CustomPreset = "Custom"

// Preset is a named chat persona.
type Preset struct {
	Name   string `mapstructure:"name" json:"name"`
	Prompt string `mapstructure:"prompt" json:"prompt"`
}

// RecipeOptions lists the select choices of the recipe form.
type RecipeOptions struct {
	Moods  []string `mapstructure:"moods" json:"moods"`
	Colors []string `mapstructure:"colors" json:"colors"`
	Times  []string `mapstructure:"times" json:"times"`
}

// ReplyOptions lists the select choices of the reply preferences form.
type ReplyOptions struct {
	Audiences []string `mapstructure:"audiences" json:"audiences"`
	Styles    []string `mapstructure:"styles" json:"styles"`
	Lengths   []string `mapstructure:"lengths" json:"lengths"`
}

// Catalog is the full set of option tables.
type Catalog struct {
	Models         []string      `mapstructure:"models" json:"models"`
	Presets        []Preset      `mapstructure:"presets" json:"presets"`
	FactCategories []string      `mapstructure:"fact_categories" json:"fact_categories"`
	Recipe         RecipeOptions `mapstructure:"recipe" json:"recipe"`
	Reply          ReplyOptions  `mapstructure:"reply" json:"reply"`
}

// Load reads the embedded catalog and merges the optional override file.
func Load(overridePath string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}

	if overridePath != "" {
		v.SetConfigFile(overridePath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge catalog %s: %w", overridePath, err)
		}
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Models) == 0 {
		return nil, fmt.Errorf("catalog has no models")
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics if the embedded file is
// broken, which only a bad build can cause.
func Default() *Catalog {
	c, err := Load("")
	if err != nil {
		panic("catalog: " + err.Error())
	}
	return c
}

// DefaultModel is the first listed model.
func (c *Catalog) DefaultModel() string {
	return c.Models[0]
}

// HasModel reports whether name is a selectable model.
func (c *Catalog) HasModel(name string) bool {
	return slices.Contains(c.Models, name)
}

// Preset looks up a preset by name.
func (c *Catalog) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// HasFactCategory reports whether name is a known fact category.
func (c *Catalog) HasFactCategory(name string) bool {
	return slices.Contains(c.FactCategories, name)
}
