package metrics

import "time"

// Status marks whether a domain produced data this cycle. A Snapshot always
// carries every domain slot; a domain that could not be read is tagged
// StatusUnavailable instead of being omitted.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
)

// MemoryPressure mirrors the kernel's coarse memory pressure levels.
type MemoryPressure string

const (
	PressureNormal   MemoryPressure = "normal"
	PressureWarn     MemoryPressure = "warn"
	PressureCritical MemoryPressure = "critical"
)

// ThermalPressure is the system-wide thermal state.
type ThermalPressure string

const (
	ThermalNominal  ThermalPressure = "nominal"
	ThermalModerate ThermalPressure = "moderate"
	ThermalHeavy    ThermalPressure = "heavy"
	ThermalCritical ThermalPressure = "critical"
	ThermalSleeping ThermalPressure = "sleeping"
)

// Memory holds normalized virtual-memory metrics for one cycle. Byte fields
// are gauges; the per-second fields are rates over the cycle's interval.
type Memory struct {
	TotalBytes       uint64         `json:"total_bytes"`
	UsedBytes        uint64         `json:"used_bytes"`
	FreeBytes        uint64         `json:"free_bytes"`
	CachedBytes      uint64         `json:"cached_bytes"`
	SwapUsedBytes    uint64         `json:"swap_used_bytes"`
	SwapTotalBytes   uint64         `json:"swap_total_bytes"`
	PageInsPerSec    float64        `json:"page_ins_per_sec"`
	PageOutsPerSec   float64        `json:"page_outs_per_sec"`
	PageFaultsPerSec float64        `json:"page_faults_per_sec"`
	Pressure         MemoryPressure `json:"pressure"`
}

// CPUCluster is the per-cluster busy/idle split plus nominal frequency.
type CPUCluster struct {
	Name      string  `json:"name"`
	FreqMHz   float64 `json:"freq_mhz"`
	ActivePct float64 `json:"active_pct"`
	IdlePct   float64 `json:"idle_pct"`
}

// GPUDevice holds one device's utilization, memory and power for a cycle.
type GPUDevice struct {
	Name          string  `json:"name"`
	Index         int     `json:"index"`
	ActivePct     float64 `json:"active_pct"`
	FreqMHz       float64 `json:"freq_mhz"`
	MemUsedBytes  uint64  `json:"mem_used_bytes"`
	MemTotalBytes uint64  `json:"mem_total_bytes"`
	PowerWatts    float64 `json:"power_watts"`
	TemperatureC  float64 `json:"temperature_c"`
}

// Disk is one block device's throughput over the cycle.
type Disk struct {
	Name             string  `json:"name"`
	ReadBytesPerSec  float64 `json:"read_bytes_per_sec"`
	WriteBytesPerSec float64 `json:"write_bytes_per_sec"`
	ReadOpsPerSec    float64 `json:"read_ops_per_sec"`
	WriteOpsPerSec   float64 `json:"write_ops_per_sec"`
}

// System carries the power breakdown and thermal state.
type System struct {
	TotalPowerWatts   float64         `json:"total_power_watts"`
	PackagePowerWatts float64         `json:"package_power_watts"`
	CorePowerWatts    float64         `json:"core_power_watts"`
	DRAMPowerWatts    float64         `json:"dram_power_watts"`
	GPUPowerWatts     float64         `json:"gpu_power_watts"`
	MaxTempC          float64         `json:"max_temp_c"`
	ThermalPressure   ThermalPressure `json:"thermal_pressure"`
}

// Snapshot is the complete fixed-shape result of one sampling cycle. It is
// built fresh every cycle and handed off to the renderer; nothing retains it
// afterwards.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	// Durations are rendered as milliseconds by the display layer.
	RequestedInterval time.Duration `json:"-"`
	ActualInterval    time.Duration `json:"-"`

	Memory       Memory `json:"memory"`
	MemoryStatus Status `json:"memory_status"`

	CPUClusters []CPUCluster `json:"cpu_clusters"`
	CPUStatus   Status       `json:"cpu_status"`

	GPUs      []GPUDevice `json:"gpus"`
	GPUStatus Status      `json:"gpu_status"`

	Disks      []Disk `json:"disks"`
	DiskStatus Status `json:"disk_status"`

	System       System `json:"system"`
	SystemStatus Status `json:"system_status"`
}

// HostInfo is static machine identity used for display headers and cluster
// naming; read once at startup.
type HostInfo struct {
	CPUBrand       string `json:"cpu_brand"`
	LogicalCores   int    `json:"logical_cores"`
	PhysicalMemory uint64 `json:"physical_memory"`
	Hostname       string `json:"hostname"`
	Platform       string `json:"platform"`
}
