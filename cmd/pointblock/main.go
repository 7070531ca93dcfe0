package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jash404/Block-model-comparison-sub000/internal/blockio"
	"github.com/jash404/Block-model-comparison-sub000/internal/blockmodel"
	"github.com/jash404/Block-model-comparison-sub000/internal/compare"
	"github.com/jash404/Block-model-comparison-sub000/internal/report"
)

var (
	pointsPath = flag.String("points", "", "CSV file with x,y,z,domain rows")
	modelPath  = flag.String("model", "", "CSV file for the block model")
	modelName  = flag.String("name", "model", "Display name of the model")
	resolution = flag.String("res", "", "Parent block size as x,y,z")
	dims       = flag.String("dims", "", "Parent grid extents as nx,ny,nz")
	attribute  = flag.String("attribute", "domain", "Categorical attribute to compare")
	legendPath = flag.String("legend", "", "Legend CSV restricting tallies to named categories")
	topN       = flag.Int("top", compare.DefaultTopN, "Categories to keep before collapsing into 'others'")
	workers    = flag.Int("workers", 0, "Resolution workers (0 uses all CPUs)")
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

func main() {
	flag.Parse()

	if *pointsPath == "" || *modelPath == "" {
		log.Fatal("both -points and -model are required")
	}
	if *resolution == "" || *dims == "" {
		log.Fatal("-res and -dims are required")
	}

	res, err := parseVec3(*resolution, "res")
	if err != nil {
		log.Fatal(err)
	}
	var counts [3]int
	for i, p := range strings.Split(*dims, ",") {
		if i > 2 {
			log.Fatalf("flag dims: want nx,ny,nz, got %q", *dims)
		}
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 1 {
			log.Fatalf("flag dims: bad count %q", p)
		}
		counts[i] = v
	}

	model, err := blockio.LoadModel(*modelPath, *modelName, res, counts[0], counts[1], counts[2])
	if err != nil {
		log.Fatalf("failed to load model %s: %v", *modelPath, err)
	}
	points, err := blockio.LoadPoints(*pointsPath, "points")
	if err != nil {
		log.Fatalf("failed to load points %s: %v", *pointsPath, err)
	}

	// Point domains are lower-cased on the point side, so fold the model's
	// attribute too before matching.
	values := model.Categorical[*attribute]
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}

	idx, err := compare.NewModelIndex(model, *attribute)
	if err != nil {
		log.Fatalf("failed to index model: %v", err)
	}

	modelResult, err := compare.Resolve(context.Background(), idx, points.Points, *workers)
	if err != nil {
		log.Fatalf("failed to resolve points: %v", err)
	}
	pointResult := compare.PointSetResult(points.Name, points.Domains)

	opts := compare.Options{TopN: *topN}
	if *legendPath != "" {
		lg, err := blockio.LoadLegend(*legendPath)
		if err != nil {
			log.Fatalf("failed to load legend %s: %v", *legendPath, err)
		}
		opts.Categories = lg.Names()
	}

	cmp, err := compare.CrossTabulate(pointResult, modelResult, opts)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}

	result := &compare.RunResult{
		SampleCount: len(points.Points),
		A:           pointResult,
		B:           modelResult,
		Comparison:  cmp,
	}
	if err := report.WriteSummary(os.Stdout, result); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
}
