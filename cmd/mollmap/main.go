package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/mollmap/internal/config"
	"github.com/ivlev/mollmap/internal/engine"
	"github.com/ivlev/mollmap/internal/logging"
	"github.com/ivlev/mollmap/internal/projection"
	"github.com/ivlev/mollmap/internal/source"
	"github.com/ivlev/mollmap/internal/system"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	configPtr := flag.String("config", "", "Путь к YAML-конфигу (по умолчанию: ./mollmap.yaml, если есть)")
	flag.String("mode", "locate", "Режим: calibrate (найти контур карты) или locate (нанести точки)")
	flag.String("input", "", "Путь к карте: PNG/JPEG/GIF/TIFF/BMP/WebP или PDF (по умолчанию: самый свежий файл в input/maps/)")
	flag.String("calibration", "", "Файл калибровки (по умолчанию: самый свежий в calibrations/ или встроенный)")
	flag.Float64("lat", 0, "Широта точки в градусах [-90, 90]")
	flag.Float64("lon", 0, "Долгота точки в градусах [-180, 180]")
	flag.String("points", "", "YAML-файл со списком точек (вместо -lat/-lon)")
	flag.String("output", "", "Путь к карте с маркерами (PNG)")
	flag.String("results", "", "Путь к JSON с результатами проекции")
	flag.Int("threshold", 230, "Порог фона: пиксель фоновый, если R, G и B больше порога")
	flag.Int("workers", runtime.NumCPU(), "Потоки")
	flag.String("clamp", "none", "Точки вне изображения: none, clamp, reject")
	flag.String("tie-break", "first", "Выбор среди равных кластеров: first, last")
	flag.Int("dpi", 150, "DPI для PDF-карт")
	flag.Int("marker-radius", 5, "Радиус маркера в пикселях")
	flag.Int("marker-border", 2, "Толщина обводки маркера")
	flag.Bool("qr", false, "Добавить QR-код с geo: ссылкой на последнюю точку")
	flag.Bool("stats", false, "Показать отчет о производительности")
	flag.String("log-level", "info", "Уровень логов: debug, info, warn, error")
	flag.String("log-format", "console", "Формат логов: console, json")

	flag.Parse()

	// Только явно заданные флаги перекрывают конфиг и окружение
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		overrides[key] = f.Value.(flag.Getter).Get()
	})

	cfg, err := config.Load(*configPtr, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
		os.Exit(2)
	}
	cfg.BuildVersion = Version

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{"input/maps", cfg.CalibrationDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			logging.Module("cli").Warn().Err(err).Str("dir", d).Msg("Не удалось создать директорию")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Run failed")
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.InputPath == "" && (cfg.Mode == "calibrate" || cfg.OutputImage != "") {
		latest, err := system.FindLatestMap("input/maps")
		if err != nil {
			return fmt.Errorf("%w. Положите карту в input/maps/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	var src source.Source
	if cfg.InputPath != "" {
		var err error
		src, err = source.Open(cfg.InputPath)
		if err != nil {
			return fmt.Errorf("ошибка инициализации источника: %w", err)
		}
		defer src.Close()
	}

	project, err := engine.NewProject(cfg, src)
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case "calibrate":
		record, _, err := project.RunCalibrate(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("[+++] Успех! Границы карты: %+v\n", record.Bounds())
		return nil

	default:
		points := []projection.GeoPoint{{Lat: cfg.Lat, Lon: cfg.Lon}}
		if cfg.PointsPath != "" {
			points, err = engine.ReadPoints(cfg.PointsPath)
			if err != nil {
				return err
			}
		}

		results, err := project.RunLocate(ctx, points)
		if err != nil {
			return err
		}
		if project.Stats.Failed > 0 {
			return fmt.Errorf("%d из %d точек не удалось нанести", project.Stats.Failed, len(results))
		}
		fmt.Printf("[+++] Успех! Нанесено точек: %d\n", len(results))
		return nil
	}
}
