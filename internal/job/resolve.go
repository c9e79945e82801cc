package job

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/team-mayes/gaussian-wrangler/internal/hostinfo"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// procListRe accepts processor lists like "0-35", "4", or "0-3,8-11".
var procListRe = regexp.MustCompile(`^\d+(-\d+)?(,\d+(-\d+)?)*$`)

// DerivedParameters holds resource values computed from host facts.
// A nil field means the template never requested that value; this is distinct
// from a field computed to zero. Pointer-as-absent follows the same shape as
// scheduler job resources.
type DerivedParameters struct {
	MaxDiskBytes *int64  // 90% of free bytes on the scratch filesystem
	CacheSize    *int64  // Gaussian CacheSize in kB-derived units
	MemoryMB     *int64  // memory allocation in MB
	ProcList     *string // contiguous processor range, e.g. "0-35"
}

// Values returns the populated fields keyed by their placeholder names.
func (d *DerivedParameters) Values() map[string]string {
	out := make(map[string]string, 4)
	if d.MaxDiskBytes != nil {
		out[KeyMaxDisk] = strconv.FormatInt(*d.MaxDiskBytes, 10)
	}
	if d.CacheSize != nil {
		out[KeyCacheSize] = strconv.FormatInt(*d.CacheSize, 10)
	}
	if d.MemoryMB != nil {
		out[KeyMem] = strconv.FormatInt(*d.MemoryMB, 10)
	}
	if d.ProcList != nil {
		out[KeyProcList] = *d.ProcList
	}
	return out
}

// ResolveParameters computes the derived resource parameters a template asks
// for. Computation is lazy and placeholder-driven: a value is derived only
// when its placeholder appears in templateText and no explicit override was
// supplied, so rendering a template with no resource placeholders never
// touches the host probe. Overrides are used verbatim after validation.
//
// Jobs run unattended on shared, quota-metered clusters, so every failure is
// surfaced rather than papered over with a guessed value.
func ResolveParameters(cfg Config, templateText string, probe hostinfo.Probe) (*DerivedParameters, error) {
	derived := &DerivedParameters{}
	wanted := Placeholders(templateText)

	if wanted[KeyMaxDisk] {
		if raw, ok := cfg.Lookup(KeyMaxDisk); ok {
			v, err := parsePositiveInt(KeyMaxDisk, raw)
			if err != nil {
				return nil, err
			}
			derived.MaxDiskBytes = &v
		} else {
			free, err := probe.FreeBytes(cfg.GetOrDefault(KeyScratchDir, "."))
			if err != nil {
				return nil, NewUnsupportedPlatformError(KeyMaxDisk, err)
			}
			frac, err := fraction(cfg, KeyMaxDiskFraction)
			if err != nil {
				return nil, err
			}
			v := int64(math.Floor(frac * float64(free)))
			derived.MaxDiskBytes = &v
		}
	}

	if wanted[KeyCacheSize] {
		if raw, ok := cfg.Lookup(KeyCacheSize); ok {
			v, err := parsePositiveInt(KeyCacheSize, raw)
			if err != nil {
				return nil, err
			}
			derived.CacheSize = &v
		} else {
			cores, err := probe.LogicalCores()
			if err != nil {
				return nil, NewUnsupportedPlatformError(KeyCacheSize, err)
			}
			cacheKB, err := parsePositiveInt(KeyCacheSizeKB, cfg.Get(KeyCacheSizeKB))
			if err != nil {
				return nil, err
			}
			v := (cacheKB * 1024) / int64(cores)
			derived.CacheSize = &v
		}
	}

	if wanted[KeyMem] {
		if raw, ok := cfg.Lookup(KeyMem); ok {
			// Memory overrides accept unit suffixes, "16G" or "16384".
			mb, err := utils.ParseSizeToMB(raw)
			if err != nil {
				return nil, NewInvalidOverrideError(KeyMem, raw, err.Error())
			}
			if mb <= 0 {
				return nil, NewInvalidOverrideError(KeyMem, raw, "must be positive")
			}
			v := int64(mb)
			derived.MemoryMB = &v
		} else {
			totalKB, freeKB, err := probe.Memory()
			if err != nil {
				return nil, NewUnsupportedPlatformError(KeyMem, err)
			}
			totalFrac, err := fraction(cfg, KeyMemTotalFrac)
			if err != nil {
				return nil, err
			}
			freeFrac, err := fraction(cfg, KeyMemFreeFrac)
			if err != nil {
				return nil, err
			}
			allocKB := math.Min(float64(totalKB)*totalFrac, float64(freeKB)*freeFrac)
			v := int64(math.Floor(allocKB)) / 1024
			derived.MemoryMB = &v
		}
	}

	if wanted[KeyProcList] {
		if raw, ok := cfg.Lookup(KeyProcList); ok {
			if !procListRe.MatchString(raw) {
				return nil, NewInvalidOverrideError(KeyProcList, raw,
					"expected a processor range like 0-35 or 0-3,8-11")
			}
			derived.ProcList = &raw
		} else {
			cores, err := probe.LogicalCores()
			if err != nil {
				return nil, NewUnsupportedPlatformError(KeyProcList, err)
			}
			v := fmt.Sprintf("0-%d", cores-1)
			derived.ProcList = &v
		}
	}

	return derived, nil
}

// parsePositiveInt validates a numeric override.
func parsePositiveInt(field, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewInvalidOverrideError(field, raw, "not an integer")
	}
	if v <= 0 {
		return 0, NewInvalidOverrideError(field, raw, "must be positive")
	}
	return v, nil
}

// fraction parses a (0, 1] tuning fraction from the configuration.
func fraction(cfg Config, key string) (float64, error) {
	raw := cfg.Get(key)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewInvalidOverrideError(key, raw, "not a number")
	}
	if v <= 0 || v > 1 {
		return 0, NewInvalidOverrideError(key, raw, "must be in (0, 1]")
	}
	return v, nil
}
