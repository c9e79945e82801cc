package cmd

import (
	"sort"
	"strings"
	"testing"
)

func TestConfigValueCompletion(t *testing.T) {
	opts := configValueCompletion("submit_job")
	if len(opts) != 2 || opts[0] != "true" || opts[1] != "false" {
		t.Errorf("submit_job completions = %v", opts)
	}
	if opts := configValueCompletion("partition"); opts != nil {
		t.Errorf("partition completions = %v, want nil", opts)
	}
}

func TestGetConfigEnvVars(t *testing.T) {
	vars := getConfigEnvVars()
	expected := make([]string, 0, len(configKeys))
	for _, key := range configKeys {
		env := "GWRANGLER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		expected = append(expected, env)
	}
	sort.Strings(expected)

	if len(vars) != len(expected) {
		t.Fatalf("got %d vars, expected %d", len(vars), len(expected))
	}
	for i, v := range vars {
		if v != expected[i] {
			t.Errorf("env var[%d] = %q, want %q", i, v, expected[i])
		}
	}
}
