package job

import (
	"errors"
	"testing"
)

// fakeProbe returns canned host facts and counts how often it is consulted.
type fakeProbe struct {
	cores    int
	coresErr error
	free     int64
	freeErr  error
	totalKB  int64
	freeKB   int64
	memErr   error
	calls    int
}

func (p *fakeProbe) LogicalCores() (int, error) {
	p.calls++
	return p.cores, p.coresErr
}

func (p *fakeProbe) FreeBytes(path string) (int64, error) {
	p.calls++
	return p.free, p.freeErr
}

func (p *fakeProbe) Memory() (int64, int64, error) {
	p.calls++
	return p.totalKB, p.freeKB, p.memErr
}

func TestResolveParametersSkipsProbeWithoutPlaceholders(t *testing.T) {
	probe := &fakeProbe{
		coresErr: errors.New("boom"),
		freeErr:  errors.New("boom"),
		memErr:   errors.New("boom"),
	}

	derived, err := ResolveParameters(NewConfig(), "g16 < $INFILE > {job_name}.log\n", probe)
	if err != nil {
		t.Fatalf("ResolveParameters() error = %v", err)
	}
	if probe.calls != 0 {
		t.Errorf("probe consulted %d times, want 0", probe.calls)
	}
	if derived.MaxDiskBytes != nil || derived.CacheSize != nil ||
		derived.MemoryMB != nil || derived.ProcList != nil {
		t.Errorf("derived fields set without placeholders: %+v", derived)
	}
}

func TestResolveParametersComputed(t *testing.T) {
	probe := &fakeProbe{
		cores:   36,
		free:    100_000_000_000,
		totalKB: 100_000_000,
		freeKB:  90_000_000,
	}
	tpl := "%MaxDisk={max_disk}\n%CacheSize={cache_size}\n%Mem={mem}MB\n%CPU={proc_list}\n"

	derived, err := ResolveParameters(NewConfig(), tpl, probe)
	if err != nil {
		t.Fatalf("ResolveParameters() error = %v", err)
	}

	if got, want := *derived.MaxDiskBytes, int64(90_000_000_000); got != want {
		t.Errorf("MaxDiskBytes = %d, want %d", got, want)
	}
	// 256 kB per machine spread over 36 cores: (256*1024)/36 truncates to 7281
	if got, want := *derived.CacheSize, int64(7281); got != want {
		t.Errorf("CacheSize = %d, want %d", got, want)
	}
	// min(100e6*0.75, 90e6*0.85) kB = 75e6 kB, floor to MB
	if got, want := *derived.MemoryMB, int64(73242); got != want {
		t.Errorf("MemoryMB = %d, want %d", got, want)
	}
	if got, want := *derived.ProcList, "0-35"; got != want {
		t.Errorf("ProcList = %q, want %q", got, want)
	}
}

func TestResolveParametersMaxDiskFloors(t *testing.T) {
	probe := &fakeProbe{free: 1001}

	derived, err := ResolveParameters(NewConfig(), "{max_disk}", probe)
	if err != nil {
		t.Fatalf("ResolveParameters() error = %v", err)
	}
	// 0.90 * 1001 = 900.9, floored
	if got, want := *derived.MaxDiskBytes, int64(900); got != want {
		t.Errorf("MaxDiskBytes = %d, want %d", got, want)
	}
}

func TestResolveParametersOverridesWin(t *testing.T) {
	probe := &fakeProbe{
		coresErr: errors.New("no cpu facts"),
		freeErr:  errors.New("no disk facts"),
		memErr:   errors.New("no memory facts"),
	}
	cfg := NewConfig()
	cfg.Merge(map[string]string{
		KeyMaxDisk:   "123456789",
		KeyCacheSize: "8192",
		KeyMem:       "4000",
		KeyProcList:  "0-3,8-11",
	})
	tpl := "{max_disk} {cache_size} {mem} {proc_list}"

	derived, err := ResolveParameters(cfg, tpl, probe)
	if err != nil {
		t.Fatalf("ResolveParameters() error = %v", err)
	}
	if probe.calls != 0 {
		t.Errorf("probe consulted %d times despite overrides, want 0", probe.calls)
	}

	want := map[string]string{
		KeyMaxDisk:   "123456789",
		KeyCacheSize: "8192",
		KeyMem:       "4000",
		KeyProcList:  "0-3,8-11",
	}
	got := derived.Values()
	for k, w := range want {
		if got[k] != w {
			t.Errorf("Values()[%q] = %q, want %q", k, got[k], w)
		}
	}
}

func TestResolveParametersMemSizeSuffix(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"16G", 16384},
		{"500M", 500},
		{"1T", 1048576},
		{"4000", 4000},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Merge(map[string]string{KeyMem: tt.value})

			derived, err := ResolveParameters(cfg, "{mem}", &fakeProbe{})
			if err != nil {
				t.Fatalf("ResolveParameters() error = %v", err)
			}
			if derived.MemoryMB == nil || *derived.MemoryMB != tt.want {
				t.Errorf("MemoryMB = %v, want %d", derived.MemoryMB, tt.want)
			}
		})
	}
}

func TestResolveParametersInvalidOverride(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative mem", KeyMem, "-4000"},
		{"zero mem", KeyMem, "0"},
		{"bad mem unit", KeyMem, "16Q"},
		{"zero cache", KeyCacheSize, "0"},
		{"non-numeric disk", KeyMaxDisk, "lots"},
		{"malformed proc list", KeyProcList, "0-"},
		{"proc list with spaces", KeyProcList, "0 - 35"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Merge(map[string]string{tt.key: tt.value})

			_, err := ResolveParameters(cfg, "{"+tt.key+"}", &fakeProbe{cores: 4, free: 1, totalKB: 1, freeKB: 1})
			if !IsInvalidOverrideError(err) {
				t.Fatalf("ResolveParameters() error = %v, want InvalidOverrideError", err)
			}
			var ie *InvalidOverrideError
			errors.As(err, &ie)
			if ie.Field != tt.key || ie.Value != tt.value {
				t.Errorf("error names %s=%q, want %s=%q", ie.Field, ie.Value, tt.key, tt.value)
			}
		})
	}
}

func TestResolveParametersUnsupportedPlatform(t *testing.T) {
	probe := &fakeProbe{freeErr: errors.New("statfs unsupported")}

	_, err := ResolveParameters(NewConfig(), "{max_disk}", probe)
	if !IsUnsupportedPlatformError(err) {
		t.Fatalf("ResolveParameters() error = %v, want UnsupportedPlatformError", err)
	}
	var ue *UnsupportedPlatformError
	errors.As(err, &ue)
	if ue.Field != KeyMaxDisk {
		t.Errorf("error field = %q, want %q", ue.Field, KeyMaxDisk)
	}
	if !errors.Is(err, probe.freeErr) {
		t.Error("underlying probe error not wrapped")
	}
}

func TestResolveParametersProbeFailureIgnoredWhenUnused(t *testing.T) {
	// Disk facts are unavailable but the template only asks for a proc list.
	probe := &fakeProbe{cores: 4, freeErr: errors.New("statfs unsupported")}

	derived, err := ResolveParameters(NewConfig(), "%CPU={proc_list}", probe)
	if err != nil {
		t.Fatalf("ResolveParameters() error = %v", err)
	}
	if got, want := *derived.ProcList, "0-3"; got != want {
		t.Errorf("ProcList = %q, want %q", got, want)
	}
}
