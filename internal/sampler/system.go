package sampler

import (
	"context"
	"strings"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
	"codeberg.org/mutker/bustop/internal/source"
)

const microjoulesPerWattSecond = 1e6

// Thermal pressure thresholds in degrees Celsius, applied to the hottest
// thermal zone.
const (
	thermalModerateC = 75.0
	thermalHeavyC    = 85.0
	thermalCriticalC = 95.0
)

type systemSampler struct {
	src source.PowerSource
	// One cumulative calculator per RAPL energy domain, keyed by the
	// kernel's domain name (package-0, core, dram, ...).
	energy map[string]*rate.Calculator
}

func NewSystemSampler(src source.PowerSource) Sampler {
	return &systemSampler{
		src:    src,
		energy: make(map[string]*rate.Calculator),
	}
}

func (*systemSampler) Domain() string {
	return "system"
}

func (s *systemSampler) Collect(ctx context.Context, snap *metrics.Snapshot) {
	reading, err := s.src.Read(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("power source unavailable")
		snap.SystemStatus = metrics.StatusUnavailable

		return
	}

	snap.SystemStatus = metrics.StatusOK

	sys := metrics.System{ThermalPressure: metrics.ThermalNominal}

	seen := make(map[string]struct{}, len(reading.Energy))
	for _, counter := range reading.Energy {
		seen[counter.Name] = struct{}{}

		calc, ok := s.energy[counter.Name]
		if !ok {
			calc = rate.New(rate.Cumulative)
			s.energy[counter.Name] = calc
		}

		watts := updateRate(calc, "system", counter.Name, reading.At,
			float64(counter.EnergyMicrojoules)) / microjoulesPerWattSecond

		switch {
		case strings.HasPrefix(counter.Name, "package"):
			sys.PackagePowerWatts += watts
		case counter.Name == "core":
			sys.CorePowerWatts += watts
		case counter.Name == "dram":
			sys.DRAMPowerWatts += watts
		}
	}

	for name := range s.energy {
		if _, ok := seen[name]; !ok {
			delete(s.energy, name)
		}
	}

	for _, temp := range reading.ZoneTempsC {
		if temp > sys.MaxTempC {
			sys.MaxTempC = temp
		}
	}
	sys.ThermalPressure = thermalLevel(sys.MaxTempC)

	snap.System = sys
}

func thermalLevel(maxTempC float64) metrics.ThermalPressure {
	switch {
	case maxTempC >= thermalCriticalC:
		return metrics.ThermalCritical
	case maxTempC >= thermalHeavyC:
		return metrics.ThermalHeavy
	case maxTempC >= thermalModerateC:
		return metrics.ThermalModerate
	default:
		return metrics.ThermalNominal
	}
}
