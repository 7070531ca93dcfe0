package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jash404/Block-model-comparison-sub000/internal/api"
	"github.com/jash404/Block-model-comparison-sub000/internal/blockio"
	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
	"github.com/jash404/Block-model-comparison-sub000/internal/comparedb"
	"github.com/jash404/Block-model-comparison-sub000/internal/lattice"
	"github.com/jash404/Block-model-comparison-sub000/internal/report"
	"github.com/jash404/Block-model-comparison-sub000/internal/version"
)

var (
	modelAPath = flag.String("model-a", "", "CSV file for the first block model")
	modelBPath = flag.String("model-b", "", "CSV file for the second block model")
	nameA      = flag.String("name-a", "model-a", "Display name of the first model")
	nameB      = flag.String("name-b", "model-b", "Display name of the second model")
	resA       = flag.String("res-a", "", "Parent block size of the first model as x,y,z")
	resB       = flag.String("res-b", "", "Parent block size of the second model as x,y,z")
	dimsA      = flag.String("dims-a", "", "Parent grid extents of the first model as nx,ny,nz")
	dimsB      = flag.String("dims-b", "", "Parent grid extents of the second model as nx,ny,nz")

	attribute   = flag.String("attribute", "domain", "Categorical attribute to compare")
	stepFlag    = flag.String("step", "", "Lattice step as x,y,z (overrides the derived step)")
	subdivision = flag.Int("subdivision", 1, "Divide the derived lattice step by this factor")
	solidPath   = flag.String("solid", "", "OBJ file restricting samples to a closed triangulated solid")
	legendPath  = flag.String("legend", "", "Legend CSV restricting tallies to named categories")
	topN        = flag.Int("top", compare.DefaultTopN, "Categories to keep before collapsing into 'others'")
	workers     = flag.Int("workers", 0, "Resolution workers (0 uses all CPUs)")
	maxSamples  = flag.Int64("max-samples", 0, "Maximum lattice samples (0 uses the built-in cap)")

	dbPath      = flag.String("db", "comparisons.db", "Run store path (empty disables persistence)")
	outDir      = flag.String("out", ".", "Directory for the summary, matrix PNG and heatmap HTML")
	listen      = flag.String("listen", "", "Serve run summaries and charts on this address after the run")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func parseVec3(s, name string) (blockmodel.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return blockmodel.Vec3{}, fmt.Errorf("flag %s: want x,y,z, got %q", name, s)
	}
	var out [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return blockmodel.Vec3{}, fmt.Errorf("flag %s: %v", name, err)
		}
		out[i] = v
	}
	return blockmodel.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseDims(s, name string) (nx, ny, nz int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("flag %s: want nx,ny,nz, got %q", name, s)
	}
	var out [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 1 {
			return 0, 0, 0, fmt.Errorf("flag %s: bad count %q", name, p)
		}
		out[i] = v
	}
	return out[0], out[1], out[2], nil
}

func loadModel(path, name, res, dims, resFlag, dimsFlag string) (*blockmodel.Model, error) {
	resolution, err := parseVec3(res, resFlag)
	if err != nil {
		return nil, err
	}
	nx, ny, nz, err := parseDims(dims, dimsFlag)
	if err != nil {
		return nil, err
	}
	return blockio.LoadModel(path, name, resolution, nx, ny, nz)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *modelAPath == "" || *modelBPath == "" {
		log.Fatal("both -model-a and -model-b are required")
	}
	if *resA == "" || *resB == "" || *dimsA == "" || *dimsB == "" {
		log.Fatal("-res-a, -res-b, -dims-a and -dims-b are required")
	}

	a, err := loadModel(*modelAPath, *nameA, *resA, *dimsA, "res-a", "dims-a")
	if err != nil {
		log.Fatalf("failed to load %s: %v", *modelAPath, err)
	}
	b, err := loadModel(*modelBPath, *nameB, *resB, *dimsB, "res-b", "dims-b")
	if err != nil {
		log.Fatalf("failed to load %s: %v", *modelBPath, err)
	}

	cfg := compare.RunConfig{
		Attribute:   *attribute,
		Subdivision: *subdivision,
		TopN:        *topN,
		Workers:     *workers,
		MaxSamples:  *maxSamples,
	}
	if *stepFlag != "" {
		step, err := parseVec3(*stepFlag, "step")
		if err != nil {
			log.Fatal(err)
		}
		cfg.Step = step
	}
	if *solidPath != "" {
		solid, err := blockio.LoadSolid(*solidPath)
		if err != nil {
			log.Fatalf("failed to load solid %s: %v", *solidPath, err)
		}
		cfg.Solid = solid
	}
	if *legendPath != "" {
		lg, err := blockio.LoadLegend(*legendPath)
		if err != nil {
			log.Fatalf("failed to load legend %s: %v", *legendPath, err)
		}
		cfg.Categories = lg.Names()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := compare.Run(ctx, a, b, cfg)
	if err != nil {
		var cerr *lattice.ConfigError
		if errors.As(err, &cerr) {
			log.Fatalf("bad lattice configuration: %v", cerr)
		}
		log.Fatalf("comparison failed: %v", err)
	}

	if err := report.WriteSummary(os.Stdout, result); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}

	matrixPath := filepath.Join(*outDir, "entire_matrix.png")
	if err := report.SaveMatrixPNG(result.Comparison.Full, matrixPath); err != nil {
		log.Fatalf("failed to save matrix plot: %v", err)
	}
	log.Printf("wrote %s", matrixPath)

	heatmapPath := filepath.Join(*outDir, "comparison_heatmap.html")
	f, err := os.Create(heatmapPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", heatmapPath, err)
	}
	title := fmt.Sprintf("%s vs %s (%s)", a.Name, b.Name, *attribute)
	if err := report.RenderHeatmap(f, result.Comparison.Collapsed, title); err != nil {
		f.Close()
		log.Fatalf("failed to render heatmap: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("failed to close %s: %v", heatmapPath, err)
	}
	log.Printf("wrote %s", heatmapPath)

	if *dbPath == "" {
		return
	}
	store, err := comparedb.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open run store: %v", err)
	}
	defer store.Close()

	runID, err := store.RecordRun(*attribute, result)
	if err != nil {
		log.Fatalf("failed to record run: %v", err)
	}
	log.Printf("recorded run %s in %s", runID, *dbPath)

	if *listen == "" {
		return
	}
	serve(ctx, store, *dbPath)
}

// serve blocks until the context is cancelled, exposing run summaries, chart
// pages and the debug console on the configured address.
func serve(ctx context.Context, store *comparedb.DB, path string) {
	mux := api.NewServer(store).ServeMux()
	store.AttachAdminRoutes(mux, path)

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("serving on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
}
