package job

import "testing"

func TestConfigMergePrecedence(t *testing.T) {
	cfg := NewConfig()
	if got := cfg.Get(KeyPartition); got != "short" {
		t.Fatalf("default partition = %q, want %q", got, "short")
	}

	// File-level settings override defaults.
	cfg.Merge(map[string]string{KeyPartition: "standard", KeyJobName: "ethyl"})
	// Command-line settings override the file.
	cfg.Merge(map[string]string{KeyPartition: "debug"})

	if got := cfg.Get(KeyPartition); got != "debug" {
		t.Errorf("partition = %q, want %q", got, "debug")
	}
	if got := cfg.Get(KeyJobName); got != "ethyl" {
		t.Errorf("job_name = %q, want %q", got, "ethyl")
	}
}

func TestConfigMergeSkipsEmpty(t *testing.T) {
	cfg := NewConfig()
	cfg.Merge(map[string]string{KeyQos: ""})
	if got := cfg.Get(KeyQos); got != "normal" {
		t.Errorf("empty merge masked default, qos = %q", got)
	}
}

func TestConfigLookup(t *testing.T) {
	cfg := Config{KeyJobName: "ethyl", KeyEmail: ""}

	if v, ok := cfg.Lookup(KeyJobName); !ok || v != "ethyl" {
		t.Errorf("Lookup(job_name) = %q, %v", v, ok)
	}
	if _, ok := cfg.Lookup(KeyEmail); ok {
		t.Error("Lookup treated empty value as set")
	}
	if got := cfg.GetOrDefault(KeyEmail, "nobody@example.edu"); got != "nobody@example.edu" {
		t.Errorf("GetOrDefault = %q", got)
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	cfg := NewConfig()
	cfg.Merge(map[string]string{KeyJobName: "step1"})

	next := cfg.Clone()
	next.Merge(map[string]string{KeyJobName: "step2", KeyOldJobName: "step1"})

	if got := cfg.Get(KeyJobName); got != "step1" {
		t.Errorf("clone mutation leaked, job_name = %q", got)
	}
	if got := cfg.Get(KeyOldJobName); got != "" {
		t.Errorf("clone mutation leaked, old_job_name = %q", got)
	}
}
