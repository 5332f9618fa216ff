package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/bootstrap"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/database"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/location"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/stats"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Collecting statistics...", zap.String("db_type", string(cfg.DB.Type)))

	ctx := context.Background()
	repos := repository.NewRepositories(db, cfg.DB.Type)
	collector := stats.NewCollector(db, cfg.DB).WithLocation(savedLocation(ctx, cfg.Location, repos, logger))

	statistics, err := collector.Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== Application Statistics ===")
	fmt.Printf("Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Memory Statistics ---")
	fmt.Printf("Allocated:        %s\n", formatBytes(s.Memory.Alloc))
	fmt.Printf("Total Allocated:  %s\n", formatBytes(s.Memory.TotalAlloc))
	fmt.Println()

	fmt.Println("--- Database Statistics ---")
	fmt.Printf("Type:            %s\n", s.Database.Type)
	fmt.Printf("Total Records:   %d\n", s.Database.TotalRecords)
	fmt.Printf("Gazetteer:       %t\n", s.Database.GazetteerLoaded)
	fmt.Println()
	fmt.Println("Table Statistics:")
	for _, ts := range s.Database.TableStats {
		fmt.Printf("  %-25s: %10d rows", ts.Name, ts.RowCount)
		if ts.SizeBytes > 0 {
			fmt.Printf(" (%s)", formatBytes(uint64(ts.SizeBytes)))
		}
		fmt.Println()
	}
	fmt.Println()

	if s.Location != nil {
		fmt.Println("--- Saved Location ---")
		fmt.Printf("Status:          %s\n", s.Location.Status)
		if s.Location.Name != "" {
			fmt.Printf("City:            %s\n", s.Location.Name)
		}
		if s.Location.Lat != nil && s.Location.Lon != nil {
			fmt.Printf("Coordinates:     %.4f, %.4f\n", *s.Location.Lat, *s.Location.Lon)
		}
		fmt.Println()
	}

	fmt.Println("--- Runtime Statistics ---")
	fmt.Printf("Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

type recordLocation struct {
	state model.LocationState
}

func (r recordLocation) State() model.LocationState { return r.state }

// savedLocation reports the persisted record without asking the device
func savedLocation(ctx context.Context, cfg config.LocationConfig, repos *repository.Container, logger *zap.Logger) stats.LocationSource {
	rec, ok, err := location.NewRecordStore(bootstrap.KVStore(cfg, repos)).Load(ctx)
	switch {
	case err != nil:
		logger.Warn("Failed to load saved location", zap.Error(err))
		return recordLocation{model.Error{Message: err.Error()}}
	case !ok || !rec.Valid():
		return nil
	}
	return recordLocation{rec.State()}
}
