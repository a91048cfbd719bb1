package source

import "codeberg.org/mutker/bustop/internal/errors"

const (
	ErrMemoryUnavailable = errors.ErrorCode("source_memory_unavailable")
	ErrCPUUnavailable    = errors.ErrorCode("source_cpu_unavailable")
	ErrGPUUnavailable    = errors.ErrorCode("source_gpu_unavailable")
	ErrDiskUnavailable   = errors.ErrorCode("source_disk_unavailable")
	ErrPowerUnavailable  = errors.ErrorCode("source_power_unavailable")

	ErrGPUInitFailed     = errors.ErrorCode("source_gpu_init_failed")
	ErrGPUShutdownFailed = errors.ErrorCode("source_gpu_shutdown_failed")
	ErrHostInfoFailed    = errors.ErrorCode("source_host_info_failed")
)
