package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
)

const (
	powercapRoot = "/sys/class/powercap"
	thermalGlob  = "/sys/class/thermal/thermal_zone*/temp"
)

type powerSource struct {
	// Energy counter paths are discovered once; the set of RAPL domains
	// does not change while the machine is up.
	energyPaths map[string]string
}

// NewPowerSource returns a source reading the kernel's powercap (RAPL)
// energy counters and thermal zone temperatures. Either half may be absent;
// the source is only unavailable when both are.
func NewPowerSource() PowerSource {
	src := &powerSource{energyPaths: make(map[string]string)}

	entries, err := os.ReadDir(powercapRoot)
	if err != nil {
		return src
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "intel-rapl") {
			continue
		}

		dir := filepath.Join(powercapRoot, entry.Name())
		nameBytes, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, "energy_uj")); err != nil {
			continue
		}

		name := strings.TrimSpace(string(nameBytes))
		src.energyPaths[name] = filepath.Join(dir, "energy_uj")
	}

	return src
}

func (s *powerSource) Read(_ context.Context) (PowerReading, error) {
	errFactory := errors.New()

	reading := PowerReading{At: time.Now()}

	names := make([]string, 0, len(s.energyPaths))
	for name := range s.energyPaths {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := readUint(s.energyPaths[name])
		if err != nil {
			continue
		}
		reading.Energy = append(reading.Energy, EnergyCounter{
			Name:              name,
			EnergyMicrojoules: value,
		})
	}

	zones, _ := filepath.Glob(thermalGlob)
	for _, zone := range zones {
		value, err := readUint(zone)
		if err != nil {
			continue
		}
		reading.ZoneTempsC = append(reading.ZoneTempsC, float64(value)/1000)
	}

	if len(reading.Energy) == 0 && len(reading.ZoneTempsC) == 0 {
		return PowerReading{}, errFactory.New(ErrPowerUnavailable)
	}

	return reading, nil
}

func readUint(path string) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
}
