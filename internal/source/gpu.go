package source

import (
	"context"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

type gpuSource struct {
	devices []nvml.Device
	names   []string
}

// NewGPUSource initializes NVML and caches one handle per device. The
// handles live for the whole process; Close releases the library. On
// machines without NVIDIA hardware initialization fails and the returned
// error carries ErrGPUInitFailed so the caller can degrade the domain to
// unavailable instead of aborting.
func NewGPUSource() (GPUSource, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, errFactory.WithData(ErrGPUInitFailed, nvml.ErrorString(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, errFactory.WithData(ErrGPUInitFailed, nvml.ErrorString(ret))
	}
	if count == 0 {
		nvml.Shutdown()
		return nil, errFactory.WithMessage(ErrGPUInitFailed, "no NVIDIA GPUs found")
	}

	src := &gpuSource{
		devices: make([]nvml.Device, 0, count),
		names:   make([]string, 0, count),
	}

	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			nvml.Shutdown()
			return nil, errFactory.WithData(ErrGPUInitFailed, nvml.ErrorString(ret))
		}

		name, ret := device.GetName()
		if ret != nvml.SUCCESS {
			name = "GPU"
		}

		src.devices = append(src.devices, device)
		src.names = append(src.names, name)
	}

	return src, nil
}

func (s *gpuSource) Read(_ context.Context) (GPUReading, error) {
	reading := GPUReading{At: time.Now()}

	for i, device := range s.devices {
		dev := GPUDeviceReading{Index: i, Name: s.names[i]}

		if util, ret := device.GetUtilizationRates(); ret == nvml.SUCCESS {
			dev.UtilizationPct = float64(util.Gpu)
		}
		if clock, ret := device.GetClockInfo(nvml.CLOCK_GRAPHICS); ret == nvml.SUCCESS {
			dev.FreqMHz = float64(clock)
		}
		if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			dev.MemUsedBytes = memInfo.Used
			dev.MemTotalBytes = memInfo.Total
		}
		if energy, ret := device.GetTotalEnergyConsumption(); ret == nvml.SUCCESS {
			dev.EnergyMillijoules = energy
		}
		if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
			dev.TemperatureC = float64(temp)
		}

		reading.Devices = append(reading.Devices, dev)
	}

	return reading, nil
}

func (s *gpuSource) Close() error {
	errFactory := errors.New()

	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errFactory.WithData(ErrGPUShutdownFailed, nvml.ErrorString(ret))
	}

	return nil
}
