package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"time"

	"github.com/ivlev/mollmap/internal/analyzer"
	"github.com/ivlev/mollmap/internal/calibration"
	"github.com/ivlev/mollmap/internal/config"
	"github.com/ivlev/mollmap/internal/logging"
	"github.com/ivlev/mollmap/internal/projection"
	"github.com/ivlev/mollmap/internal/renderer"
	"github.com/ivlev/mollmap/internal/source"
)

var ErrNoSource = errors.New("map source is required")

// Project wires a map source, a calibration record and the projector for one
// CLI run.
type Project struct {
	Config     *config.Config
	Source     source.Source
	Calibrator *calibration.Calibrator
	Policy     projection.ClampPolicy
	Stats      Stats
}

// NewProject builds a Project from cfg. src may be nil for locate runs that
// write no annotated image and have a sized calibration record.
func NewProject(cfg *config.Config, src source.Source) (*Project, error) {
	tieBreak, err := analyzer.NewTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}
	policy, err := projection.ParseClampPolicy(cfg.ClampPolicy)
	if err != nil {
		return nil, err
	}

	return &Project{
		Config: cfg,
		Source: src,
		Calibrator: &calibration.Calibrator{
			Classifier: &analyzer.Classifier{
				Threshold: uint8(cfg.Threshold),
				Workers:   cfg.Workers,
			},
			TieBreak: tieBreak,
		},
		Policy: policy,
	}, nil
}

func (p *Project) renderMap(ctx context.Context) (image.Image, error) {
	if p.Source == nil {
		return nil, ErrNoSource
	}
	if p.Source.PageCount() == 0 {
		return nil, fmt.Errorf("источник не содержит страниц: %s", p.Config.InputPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := p.Source.RenderPage(0, p.Config.DPI)
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	p.Stats.Render = time.Since(start)
	return img, nil
}

// RunCalibrate renders the first page of the source, extracts the outline
// extremes and stores them as a record. The written path is returned.
func (p *Project) RunCalibrate(ctx context.Context) (*calibration.Record, string, error) {
	logger := logging.Module("engine")
	startTime := time.Now()

	img, err := p.renderMap(ctx)
	if err != nil {
		return nil, "", err
	}

	fmt.Println("--- [MOLLMAP: CALIBRATE] ---")
	fmt.Printf("[*] Источник: %s | Размер: %dx%d | Порог фона: %d\n",
		p.Config.InputPath, img.Bounds().Dx(), img.Bounds().Dy(), p.Config.Threshold)
	fmt.Println("----------------------------")

	analyzeStart := time.Now()
	record, err := p.Calibrator.Calibrate(img, p.Config.InputPath)
	if err != nil {
		return nil, "", err
	}
	p.Stats.Analyze = time.Since(analyzeStart)

	path := p.Config.CalibrationPath
	if path == "" {
		path = filepath.Join(p.Config.CalibrationDir, filepath.Base(calibration.GenerateRecordPath(p.Config.InputPath)))
	}
	if err := calibration.WriteRecord(record, path); err != nil {
		return nil, "", err
	}
	logger.Info().Str("path", path).Msg("Calibration record written")
	fmt.Printf("[+++] Калибровка сохранена: %s\n", path)

	if p.Config.OutputImage != "" {
		annotateStart := time.Now()
		ext := record.Extremes()
		pts := []image.Point{ext.West, ext.East, ext.North, ext.South}
		if err := p.annotate(img, pts, nil); err != nil {
			return nil, "", err
		}
		p.Stats.Annotate = time.Since(annotateStart)
	}

	p.Stats.Total = time.Since(startTime)
	p.Stats.Points = 0
	p.report(ctx, "calibrate")

	return record, path, nil
}

// LoadRecord resolves the calibration to use: the configured file, else the
// newest record in the calibration directory, else the built-in default.
func (p *Project) LoadRecord() (*calibration.Record, string, error) {
	logger := logging.Module("engine")

	if p.Config.CalibrationPath != "" {
		record, err := calibration.ReadRecord(p.Config.CalibrationPath)
		return record, p.Config.CalibrationPath, err
	}

	latest, err := calibration.FindLatestRecord(p.Config.CalibrationDir)
	if err == nil {
		record, err := calibration.ReadRecord(latest)
		return record, latest, err
	}

	logger.Warn().Err(err).Msg("No calibration record found, using built-in default")
	record := calibration.Default
	return &record, "default", nil
}

// RunLocate projects points onto the calibrated map. Per-point failures are
// reported in the results; the returned error covers the run itself.
func (p *Project) RunLocate(ctx context.Context, points []projection.GeoPoint) ([]Result, error) {
	logger := logging.Module("engine")
	startTime := time.Now()

	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	record, recordPath, err := p.LoadRecord()
	if err != nil {
		return nil, err
	}

	width, height := record.Width, record.Height
	var img image.Image
	if p.Config.OutputImage != "" || width == 0 || height == 0 {
		if p.Source != nil {
			img, err = p.renderMap(ctx)
			if err != nil {
				return nil, err
			}
			b := img.Bounds()
			if width != 0 && (width != b.Dx() || height != b.Dy()) {
				logger.Warn().
					Int("record_width", width).
					Int("record_height", height).
					Int("map_width", b.Dx()).
					Int("map_height", b.Dy()).
					Msg("Map size differs from calibration")
			}
			width, height = b.Dx(), b.Dy()
		} else if p.Config.OutputImage != "" {
			return nil, ErrNoSource
		}
	}

	projector, err := projection.NewProjector(record.Bounds(), width, height, p.Policy)
	if err != nil {
		return nil, err
	}

	fmt.Println("--- [MOLLMAP: LOCATE] ---")
	fmt.Printf("[*] Калибровка: %s | Точек: %d | Потоков: %d | Clamp: %s\n",
		recordPath, len(points), p.Config.Workers, p.Policy)
	fmt.Println("-------------------------")

	projectStart := time.Now()
	results, err := p.projectAll(ctx, projector, points)
	if err != nil {
		return nil, err
	}
	p.Stats.Project = time.Since(projectStart)

	failed := 0
	var placed []image.Point
	var last *projection.GeoPoint
	for i := range results {
		r := &results[i]
		if r.Error != "" {
			failed++
			logger.Warn().Int("index", r.Index).Str("error", r.Error).Msg("Point not located")
			continue
		}
		placed = append(placed, r.Pixel())
		last = &r.Point
		fmt.Printf("[>] (%.4f, %.4f) -> (%d, %d)\n", r.Point.Lat, r.Point.Lon, r.X, r.Y)
	}

	if p.Config.OutputImage != "" {
		annotateStart := time.Now()
		if err := p.annotate(img, placed, last); err != nil {
			return nil, err
		}
		p.Stats.Annotate = time.Since(annotateStart)
	}

	p.Stats.Total = time.Since(startTime)
	p.Stats.Points = len(points)
	p.Stats.Failed = failed

	if p.Config.ResultsPath != "" {
		doc := ResultsFile{
			Calibration: recordPath,
			Bounds:      record.Bounds(),
			Clamp:       p.Policy.String(),
			Results:     results,
		}
		if p.Config.ShowStats {
			host := p.host(ctx)
			doc.Host = &host
		}
		if err := WriteResults(&doc, p.Config.ResultsPath); err != nil {
			return nil, err
		}
		fmt.Printf("[+++] Результаты сохранены: %s\n", p.Config.ResultsPath)
	}

	p.report(ctx, "locate")
	return results, nil
}

// projectAll fans points out to a bounded pool of workers. Results keep the
// input order.
func (p *Project) projectAll(ctx context.Context, projector *projection.Projector, points []projection.GeoPoint) ([]Result, error) {
	jobs := make(chan int, len(points))
	results := make([]Result, len(points))

	numWorkers := p.Config.Workers
	if numWorkers > len(points) {
		numWorkers = len(points)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[i] = locate(projector, i, points[i])
			}
		}()
	}

	for i := range points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func locate(projector *projection.Projector, index int, pt projection.GeoPoint) Result {
	res := Result{Index: index, Point: pt}

	detail, err := projector.LocateDetailed(pt)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.X, res.Y = detail.Pixel.X, detail.Pixel.Y
	res.PlaneX, res.PlaneY = detail.X, detail.Y
	res.Theta = detail.Theta
	res.Iterations = detail.Iterations
	res.Converged = detail.Converged
	res.Pole = detail.Pole
	return res
}

func (p *Project) marker() renderer.Marker {
	m := renderer.DefaultMarker
	m.Radius = p.Config.MarkerRadius
	m.Border = p.Config.MarkerBorder
	return m
}

// annotate writes a copy of img with a marker on every point. Points are in
// map coordinates, origin at img.Bounds().Min. With qrPoint set and QR
// enabled, a geo URI for it is stamped in the corner.
func (p *Project) annotate(img image.Image, pts []image.Point, qrPoint *projection.GeoPoint) error {
	overlay := renderer.NewOverlay(img)
	defer overlay.Release()

	origin := img.Bounds().Min
	m := p.marker()
	if len(pts) == 1 {
		overlay.PlaceMarker(pts[0].Add(origin), m)
	} else {
		for _, pt := range pts {
			overlay.AddMarker(pt.Add(origin), m)
		}
	}

	if p.Config.QRCode && qrPoint != nil {
		if err := overlay.StampQR(renderer.GeoURI(*qrPoint), renderer.DefaultQRSize); err != nil {
			return err
		}
	}

	if err := overlay.WritePNG(p.Config.OutputImage); err != nil {
		return err
	}
	fmt.Printf("[+++] Карта с маркерами: %s\n", p.Config.OutputImage)
	return nil
}
