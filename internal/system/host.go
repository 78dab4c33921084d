package system

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a run was measured on.
type HostInfo struct {
	Hostname    string  `json:"hostname"`
	Platform    string  `json:"platform"`
	CPUModel    string  `json:"cpu_model"`
	LogicalCPUs int     `json:"logical_cpus"`
	TotalMemMB  uint64  `json:"total_mem_mb"`
	UsedMemPct  float64 `json:"used_mem_pct"`
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%s) | CPU: %s x%d | RAM: %d MB (%.1f%% used)",
		h.Hostname, h.Platform, h.CPUModel, h.LogicalCPUs, h.TotalMemMB, h.UsedMemPct)
}

// CollectHostInfo gathers what gopsutil can report. Fields it cannot read
// keep runtime fallbacks instead of failing the whole report.
func CollectHostInfo(ctx context.Context) HostInfo {
	info := HostInfo{
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		CPUModel:    "unknown",
		LogicalCPUs: runtime.NumCPU(),
	}

	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hi.Hostname
		if hi.Platform != "" {
			info.Platform = hi.Platform + " " + hi.PlatformVersion
		}
	}

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		info.LogicalCPUs = n
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalMemMB = vm.Total / (1024 * 1024)
		info.UsedMemPct = vm.UsedPercent
	}

	return info
}
