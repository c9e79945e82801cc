package job

import (
	"os"
	"strings"
	"testing"
)

func TestSetupThread(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "ethyl.com", "# opt b3lyp\n\nethyl\n\n0 1\nC 0.0 0.0 0.0\n\n")

	cfg := NewConfig()
	cfg.Merge(map[string]string{
		KeyEmail:   "someone@example.edu",
		KeyJobList: "",
	})
	r := NewRunner(cfg, &fakeProbe{})

	res, err := r.SetupThread("ethyl", "ethyl", []string{""}, "", SetupOptions{})
	if err != nil {
		t.Fatalf("SetupThread() error = %v", err)
	}

	sbatch, err := os.ReadFile(res.SbatchPath)
	if err != nil {
		t.Fatal(err)
	}
	script := string(sbatch)
	for _, want := range []string{
		"--job-name=ethyl",
		"--partition=short",
		"--time=4:00:00",
		"--account=bpms",
		"--qos=normal",
		"--mail-user=someone@example.edu",
		"gwrangler run ethyl -c " + res.ConfigPath,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("sbatch script missing %q:\n%s", want, script)
		}
	}
	if strings.Contains(script, "{") {
		t.Errorf("sbatch script has unresolved placeholders:\n%s", script)
	}

	ini, err := os.ReadFile(res.ConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ini), "[main]") || !strings.Contains(string(ini), "job_list = ") {
		t.Errorf("child config incomplete:\n%s", ini)
	}
	// Non-default options travel with the child config.
	if !strings.Contains(string(ini), "email = someone@example.edu") {
		t.Errorf("child config dropped email:\n%s", ini)
	}
}

func TestSetupThreadNoEmail(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "ethyl.com", "# opt b3lyp\n\nethyl\n\n0 1\nC 0.0 0.0 0.0\n\n")

	r := NewRunner(NewConfig(), &fakeProbe{})
	res, err := r.SetupThread("ethyl", "ethyl", []string{""}, "", SetupOptions{})
	if err != nil {
		t.Fatalf("SetupThread() error = %v", err)
	}
	sbatch, _ := os.ReadFile(res.SbatchPath)
	if strings.Contains(string(sbatch), "--mail") {
		t.Errorf("sbatch script has mail directives without an address:\n%s", sbatch)
	}
}

func TestSetupThreadChkGuard(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "ethyl.com", "# opt b3lyp guess=read geom=check\n\nethyl\n\n0 1\nC 0.0 0.0 0.0\n\n")

	r := NewRunner(NewConfig(), &fakeProbe{})

	_, err := r.SetupThread("ethyl", "ethyl", []string{""}, "", SetupOptions{})
	if err == nil || !strings.Contains(err.Error(), "route") {
		t.Fatalf("SetupThread() error = %v, want checkpoint route guard", err)
	}

	// The guard can be bypassed explicitly.
	if _, err := r.SetupThread("ethyl", "ethyl", []string{""}, "", SetupOptions{IgnoreChkWarning: true}); err != nil {
		t.Errorf("SetupThread(ignore) error = %v", err)
	}

	// An old checkpoint satisfies the route, no guard needed.
	cfg := NewConfig()
	cfg.Merge(map[string]string{KeyFirstJobChk: "previous"})
	r2 := NewRunner(cfg, &fakeProbe{})
	res, err := r2.SetupThread("ethyl", "ethyl", []string{""}, "", SetupOptions{})
	if err != nil {
		t.Fatalf("SetupThread(chk) error = %v", err)
	}
	sbatch, _ := os.ReadFile(res.SbatchPath)
	if !strings.Contains(string(sbatch), "-o previous") {
		t.Errorf("sbatch script missing old chk flag:\n%s", sbatch)
	}
}

func TestSetupThreadStartFromSameChk(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "ethyl.com", "# opt\n\nethyl\n\n0 1\nC 0.0 0.0 0.0\n\n")

	r := NewRunner(NewConfig(), &fakeProbe{})
	res, err := r.SetupThread("ethyl", "ethyl", []string{"freq"}, "", SetupOptions{StartFromSameChk: true})
	if err != nil {
		t.Fatalf("SetupThread() error = %v", err)
	}
	sbatch, _ := os.ReadFile(res.SbatchPath)
	if !strings.Contains(string(sbatch), "-o ethyl") {
		t.Errorf("sbatch script missing same-chk flag:\n%s", sbatch)
	}
}
