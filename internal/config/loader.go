package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Load reads the JSON config at path, resolving "extends" against the
// base config before any per-key overrides apply. Missing keys retain
// Default() values; unknown keys are ignored.
//
// viper has no native notion of "extends a sibling file", so this
// function resolves the chain itself — walking extends first, merging
// each file's raw JSON object on top of the last — then hands the fully
// merged document to viper for unmarshalling.
func Load(path string) (RuntimeConfig, error) {
	merged, err := loadMergedMap(path, make(map[string]bool))
	if err != nil {
		return RuntimeConfig{}, err
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return RuntimeConfig{}, errors.New(err).
			Component("config").
			Category(errors.CategoryConfiguration).
			Context("path", path).
			Build()
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return RuntimeConfig{}, errors.New(err).
			Component("config").
			Category(errors.CategoryConfiguration).
			Context("path", path).
			Build()
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "json" }); err != nil {
		return RuntimeConfig{}, errors.New(err).
			Component("config").
			Category(errors.CategoryConfiguration).
			Context("path", path).
			Build()
	}
	cfg.Extends = ""

	if err := Validate(cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// loadMergedMap reads path as a raw JSON object, recursively merging in
// whatever it "extends" (resolved relative to path) underneath it, so
// later (child) keys win. visited guards against extends cycles.
func loadMergedMap(path string, visited map[string]bool) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.New(err).Component("config").Category(errors.CategoryConfiguration).Build()
	}
	if visited[abs] {
		return nil, errors.Newf("config extends cycle at %s", path).
			Component("config").Category(errors.CategoryConfiguration).Build()
	}
	visited[abs] = true

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("config").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(err).
			Component("config").
			Category(errors.CategoryConfiguration).
			Context("path", path).
			Build()
	}

	base := map[string]any{}
	if extends, ok := doc["extends"].(string); ok && extends != "" {
		extendsPath := extends
		if !filepath.IsAbs(extendsPath) {
			extendsPath = filepath.Join(filepath.Dir(path), extendsPath)
		}
		base, err = loadMergedMap(extendsPath, visited)
		if err != nil {
			return nil, err
		}
	}

	mergeInto(base, doc)
	delete(base, "extends")
	return base, nil
}

// mergeInto merges src's keys into dst, recursing into nested objects at
// every depth so e.g. "gate.attackMs" overrides survive without
// clobbering the rest of "gate".
func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if k == "extends" {
			continue
		}
		if srcObj, ok := v.(map[string]any); ok {
			dstObj, ok := dst[k].(map[string]any)
			if !ok {
				dstObj = map[string]any{}
			}
			mergeInto(dstObj, srcObj)
			dst[k] = dstObj
			continue
		}
		dst[k] = v
	}
}
