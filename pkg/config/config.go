// Package config loads the workspace configuration from
// .ngslint/config.yaml: severity overrides, disabled diagnostic kinds,
// and custom expression rules. The file is optional; a missing config is
// not an error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/validate"
)

// Config is the .ngslint/config.yaml document.
type Config struct {
	// Severity overrides the default severity per diagnostic kind.
	Severity map[string]string `yaml:"severity,omitempty" json:"severity,omitempty" jsonschema:"description=Per-kind severity overrides (error, warning, info)"`

	// Disabled lists diagnostic kinds to suppress entirely.
	Disabled []string `yaml:"disabled,omitempty" json:"disabled,omitempty"`

	// Rules declares additional table/column checks as expressions.
	Rules []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Rule is a user-defined check evaluated per table or per column.
type Rule struct {
	Name     string `yaml:"name" json:"name" jsonschema:"required"`
	Scope    string `yaml:"scope" json:"scope" jsonschema:"required,enum=table,enum=column"`
	When     string `yaml:"when" json:"when" jsonschema:"required,description=Boolean expression; the rule fires when it evaluates true"`
	Message  string `yaml:"message" json:"message" jsonschema:"required"`
	Severity string `yaml:"severity,omitempty" json:"severity,omitempty" jsonschema:"enum=error,enum=warning,enum=info"`
}

// Load reads .ngslint/config.yaml from dir. Returns nil (not an error)
// when the file does not exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".ngslint", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse workspace config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("workspace config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the config against its generated JSON Schema plus the
// referential constraints the schema cannot express (kind names must
// exist in the taxonomy).
func (c *Config) Validate() error {
	if err := c.validateSchema(); err != nil {
		return err
	}

	var problems []string
	for kind, sev := range c.Severity {
		if _, ok := diagnostic.Lookup(diagnostic.Kind(kind)); !ok {
			problems = append(problems, fmt.Sprintf("severity override names unknown kind %q", kind))
		}
		switch diagnostic.Severity(sev) {
		case diagnostic.SeverityError, diagnostic.SeverityWarning, diagnostic.SeverityInfo:
		default:
			problems = append(problems, fmt.Sprintf("severity override for %q has unknown level %q", kind, sev))
		}
	}
	for _, kind := range c.Disabled {
		if _, ok := diagnostic.Lookup(diagnostic.Kind(kind)); !ok {
			problems = append(problems, fmt.Sprintf("disabled list names unknown kind %q", kind))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// validateSchema round-trips the config through its invopop-generated
// JSON Schema compiled with santhosh-tekuri.
func (c *Config) validateSchema() error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal for schema validation: %w", err)
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := sjsonschema.NewCompiler()
	if err := compiler.AddResource("ngslint-config.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile("ngslint-config.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			var msgs []string
			for _, cause := range flatten(ve) {
				msgs = append(msgs, fmt.Sprintf("%s: %v",
					strings.Join(cause.InstanceLocation, "/"), cause.ErrorKind))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, c := range ve.Causes {
		flat = append(flat, flatten(c)...)
	}
	return flat
}

// GenerateJSONSchema emits the Draft 2020-12 schema for the config file.
func GenerateJSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: false, ExpandedStruct: true}
	s := r.Reflect(&Config{})
	s.ID = "https://github.com/ormasoftchile/ngslint/config"
	s.Title = "ngslint workspace configuration"
	return json.MarshalIndent(s, "", "  ")
}

// CompiledRules compiles the config's custom rules for the session.
// Compile failures come back as diagnostics, not an error, so a broken
// rule degrades to a reported problem instead of aborting the run.
func (c *Config) CompiledRules() ([]validate.CompiledRule, []*diagnostic.Diagnostic) {
	if c == nil || len(c.Rules) == 0 {
		return nil, nil
	}
	rules := make([]validate.CustomRule, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, validate.CustomRule{
			Name:     r.Name,
			Scope:    r.Scope,
			When:     r.When,
			Message:  r.Message,
			Severity: diagnostic.Severity(r.Severity),
		})
	}
	return validate.CompileRules(rules)
}

// Apply filters disabled kinds and rewrites severities per the
// overrides, preserving order. A nil config returns diags unchanged.
func (c *Config) Apply(diags []*diagnostic.Diagnostic) []*diagnostic.Diagnostic {
	if c == nil || (len(c.Severity) == 0 && len(c.Disabled) == 0) {
		return diags
	}
	disabled := make(map[string]bool, len(c.Disabled))
	for _, k := range c.Disabled {
		disabled[k] = true
	}
	out := diags[:0]
	for _, d := range diags {
		if disabled[string(d.Kind)] {
			continue
		}
		if sev, ok := c.Severity[string(d.Kind)]; ok {
			d.Severity = diagnostic.Severity(sev)
		}
		out = append(out, d)
	}
	return out
}
