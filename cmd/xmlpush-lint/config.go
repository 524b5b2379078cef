package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/xmlpush"
	"github.com/lestrrat-go/xmlpush/resolver"
	"github.com/pkg/errors"
)

// fileConfig is the on-disk shape of the configuration file.
type fileConfig struct {
	Encoding           string         `toml:"encoding"`
	ParamEntityParsing string         `toml:"param_entity_parsing"`
	Namespaces         string         `toml:"namespace_separator"`
	Entities           []entityConfig `toml:"entity"`
}

// entityConfig supplies the replacement text of one external entity,
// either inline or from a file relative to the configuration file.
type entityConfig struct {
	SystemID string `toml:"system_id"`
	Text     string `toml:"text"`
	Path     string `toml:"path"`
	Encoding string `toml:"encoding"`
}

type config struct {
	encoding   string
	peParsing  xmlpush.ParamEntityParsing
	nsSep      string
	namespaces bool
	candidates []resolver.Candidate
}

func loadConfig(path string) (*config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errors.Wrap(err, `failed to load config`)
	}

	var cfg config
	if meta.IsDefined("encoding") {
		cfg.encoding = strings.TrimSpace(raw.Encoding)
	}
	if meta.IsDefined("param_entity_parsing") {
		v, err := parseParamEntityParsing(raw.ParamEntityParsing)
		if err != nil {
			return nil, err
		}
		cfg.peParsing = v
	}
	if meta.IsDefined("namespace_separator") {
		cfg.namespaces = true
		cfg.nsSep = raw.Namespaces
	}

	dir := filepath.Dir(path)
	for i, e := range raw.Entities {
		if e.SystemID == "" {
			return nil, errors.Errorf(`entity #%d: system_id is required`, i+1)
		}
		c := resolver.Candidate{
			SystemID: e.SystemID,
			Text:     e.Text,
			Encoding: e.Encoding,
		}
		switch {
		case e.Path != "" && e.Text != "":
			return nil, errors.Errorf(`entity %q: text and path are mutually exclusive`, e.SystemID)
		case e.Path != "":
			p := e.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			buf, err := os.ReadFile(p)
			if err != nil {
				return nil, errors.Wrapf(err, `entity %q`, e.SystemID)
			}
			c.Text = string(buf)
		}
		cfg.candidates = append(cfg.candidates, c)
	}
	return &cfg, nil
}

func parseParamEntityParsing(s string) (xmlpush.ParamEntityParsing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return xmlpush.ParamEntityParsingNever, nil
	case "unless-standalone", "unless_standalone":
		return xmlpush.ParamEntityParsingUnlessStandalone, nil
	case "always":
		return xmlpush.ParamEntityParsingAlways, nil
	}
	return xmlpush.ParamEntityParsingNever, errors.Errorf(`invalid param_entity_parsing %q`, s)
}
