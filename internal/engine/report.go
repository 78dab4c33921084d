package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/mollmap/internal/logging"
	"github.com/ivlev/mollmap/internal/system"
)

// BenchmarkLog collects one line per run when stats are enabled.
var BenchmarkLog = "benchmark.log"

// Stats holds stage timings of the last run.
type Stats struct {
	Render   time.Duration
	Analyze  time.Duration
	Project  time.Duration
	Annotate time.Duration
	Total    time.Duration
	Points   int
	Failed   int
	Host     *system.HostInfo
}

func (p *Project) host(ctx context.Context) system.HostInfo {
	if p.Stats.Host == nil {
		info := system.CollectHostInfo(ctx)
		p.Stats.Host = &info
	}
	return *p.Stats.Host
}

func (p *Project) report(ctx context.Context, mode string) {
	if !p.Config.ShowStats {
		return
	}
	host := p.host(ctx)

	pps := 0.0
	if p.Stats.Project > 0 {
		pps = float64(p.Stats.Points) / p.Stats.Project.Seconds()
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Mode: %s\n"+
			"Total Time: %.3fs\n"+
			"Rendering: %.3fs\n"+
			"Boundary Analysis: %.3fs\n"+
			"Projection: %.3fs (%d points, %d failed, %.0f pts/s)\n"+
			"Annotation: %.3fs\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, mode,
		p.Stats.Total.Seconds(), p.Stats.Render.Seconds(), p.Stats.Analyze.Seconds(),
		p.Stats.Project.Seconds(), p.Stats.Points, p.Stats.Failed, pps,
		p.Stats.Annotate.Seconds(),
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Mode: %s | Input: %s | Points: %d | Total: %.3fs | Render: %.3fs | Analyze: %.3fs | Project: %.3fs | CPU: %s x%d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		mode,
		filepath.Base(p.Config.InputPath),
		p.Stats.Points,
		p.Stats.Total.Seconds(),
		p.Stats.Render.Seconds(),
		p.Stats.Analyze.Seconds(),
		p.Stats.Project.Seconds(),
		host.CPUModel,
		host.LogicalCPUs,
	)

	if err := appendBenchmark(BenchmarkLog, logEntry); err != nil {
		logging.Module("engine").Warn().Err(err).Str("path", BenchmarkLog).Msg("Benchmark entry not written")
		fmt.Printf("[!] Не удалось записать %s: %v\n", BenchmarkLog, err)
	}
}

func appendBenchmark(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
