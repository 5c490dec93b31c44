package storage

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// varPattern matches {{VAR_NAME}} or {{env:VAR_NAME}}
var varPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// LoadEnvironment loads variables from a YAML file of string keys and values.
func LoadEnvironment(filePath string) (map[string]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	var env map[string]string
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment YAML: %w", err)
	}
	if env == nil {
		env = map[string]string{}
	}

	// Resolve any {{env:VAR}} references to actual environment variables
	for key, value := range env {
		env[key] = SubstituteVariables(value, nil)
	}

	return env, nil
}

// SubstituteVariables replaces {{VAR}} placeholders with values from env and
// {{env:VAR}} placeholders with process environment variables. Unknown placeholders
// are left untouched.
func SubstituteVariables(text string, env map[string]string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		varName := strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{"))

		if sysVar, ok := strings.CutPrefix(varName, "env:"); ok {
			if val, found := os.LookupEnv(sysVar); found {
				return val
			}
			return match
		}

		if val, ok := env[varName]; ok {
			return val
		}
		return match
	})
}

// ApplyEnvironment returns a copy of d with placeholders substituted in the URL, header
// values and text bodies. Structured bodies pass through unchanged.
func ApplyEnvironment(d *RequestDescriptor, env map[string]string) *RequestDescriptor {
	applied := d.Clone()
	applied.URL = SubstituteVariables(d.URL, env)

	for k, v := range d.Headers {
		applied.Headers[k] = SubstituteVariables(v, env)
	}

	if d.Body.Kind() == BodyText {
		applied.Body = TextBody(SubstituteVariables(d.Body.Text(), env))
	}

	return applied
}
