package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/rigidbind/config"
	"github.com/wippyai/rigidbind/engine"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/runtime"
)

func main() {
	var (
		sceneFile   = flag.String("scene", "", "Path to scene YAML file")
		format      = flag.String("format", "summary", "Output format: table or summary")
		slices      = flag.Int("slices", 0, "Override sphere slices")
		segments    = flag.Int("segments", 0, "Override sphere segments")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *sceneFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: meshdump -scene <scene.yaml> [-format table|summary] [-slices n] [-segments n]")
		fmt.Fprintln(os.Stderr, "       meshdump -scene <scene.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	detail := geometry.Detail{Slices: *slices, Segments: *segments}
	if err := run(os.Stdout, *sceneFile, *format, detail, *interactive, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run holds the deferred cleanups; main only reports the error and exits.
func run(w io.Writer, sceneFile, format string, detail geometry.Detail, interactive, verbose bool) error {
	log, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	engine.SetLogger(log.Named("engine"))

	sess, err := open(sceneFile, detail, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(sess)
	}
	return dump(w, sess, format)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// session is a scene applied to a fresh runtime.
type session struct {
	rt     *runtime.Runtime
	scene  *config.Scene
	built  *config.Built
	name   string
	detail geometry.Detail
}

func open(path string, override geometry.Detail, log *zap.Logger) (*session, error) {
	scene, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return newSession(path, scene, override, log)
}

func newSession(name string, scene *config.Scene, override geometry.Detail, log *zap.Logger) (*session, error) {
	opts := runtime.DefaultOptions()
	opts.Logger = log.Named("runtime")
	rt := runtime.New(engine.NewLocal(), opts)

	built, err := scene.Apply(rt)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	detail := scene.GeometryDetail()
	if override.Slices > 0 {
		detail.Slices = override.Slices
	}
	if override.Segments > 0 {
		detail.Segments = override.Segments
	}

	s := &session{rt: rt, scene: scene, built: built, name: name}
	if err := s.setDetail(detail); err != nil {
		_ = rt.Close()
		return nil, err
	}
	log.Debug("scene loaded",
		zap.String("scene", name),
		zap.Int("shapes", len(built.ShapeNames)),
		zap.Int("actors", len(built.ActorNames)))
	return s, nil
}

func (s *session) setDetail(d geometry.Detail) error {
	if err := s.rt.Warm(context.Background(), d); err != nil {
		return err
	}
	s.detail = d
	return nil
}

func (s *session) Close() error {
	return s.rt.Close()
}

// shapeRow is one line of the summary.
type shapeRow struct {
	name  string
	kind  string
	faces string
	arity string
	err   error
}

func (s *session) shapeRows() []shapeRow {
	rows := make([]shapeRow, 0, len(s.built.ShapeNames))
	for i, name := range s.built.ShapeNames {
		row := shapeRow{name: name, kind: s.scene.Shapes[i].Kind, faces: "-", arity: "-"}
		m, err := s.rt.Tessellate(s.built.Shapes[name], s.detail)
		switch {
		case errors.KindOf(err) == errors.KindUnsupportedGeometry:
			row.faces = "unsupported"
		case err != nil:
			row.err = err
		default:
			row.faces = strconv.Itoa(m.Len())
			row.arity = strconv.Itoa(m.Arity())
		}
		rows = append(rows, row)
	}
	return rows
}

func dump(w io.Writer, s *session, format string) error {
	switch format {
	case "summary":
		return writeSummary(w, s)
	case "table":
		return writeTables(w, s)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeSummary(w io.Writer, s *session) error {
	fmt.Fprintf(w, "Scene: %s\n", s.name)
	fmt.Fprintf(w, "Detail: %d slices, %d segments\n\n", s.detail.Slices, s.detail.Segments)

	fmt.Fprintf(w, "%-16s %-8s %12s %6s\n", "SHAPE", "KIND", "FACES", "ARITY")
	for _, r := range s.shapeRows() {
		if r.err != nil {
			return fmt.Errorf("shape %s: %w", r.name, r.err)
		}
		fmt.Fprintf(w, "%-16s %-8s %12s %6s\n", r.name, r.kind, r.faces, r.arity)
	}

	if len(s.built.ActorNames) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%-16s %-24s %s\n", "ACTOR", "POSITION", "SHAPES")
	for _, name := range s.built.ActorNames {
		h := s.built.Actors[name]
		wire, err := s.rt.GlobalPose(h)
		if err != nil {
			return fmt.Errorf("actor %s: %w", name, err)
		}
		shapes, err := s.rt.Shapes(h)
		if err != nil {
			return fmt.Errorf("actor %s: %w", name, err)
		}
		fmt.Fprintf(w, "%-16s %-24s %d\n", name, formatVec(wire.Position[:]), len(shapes))
	}
	stats := s.rt.CacheStats()
	fmt.Fprintf(w, "\nMesh cache: %d hits, %d misses\n", stats.Hits, stats.Misses)
	return nil
}

func writeTables(w io.Writer, s *session) error {
	for i, name := range s.built.ShapeNames {
		rows, err := s.rt.Table(s.built.Shapes[name], s.detail)
		if errors.Is(err, errors.ErrUnsupportedGeometry) {
			fmt.Fprintf(w, "# %s (%s): unsupported\n", name, s.scene.Shapes[i].Kind)
			continue
		}
		if err != nil {
			return fmt.Errorf("shape %s: %w", name, err)
		}
		fmt.Fprintf(w, "# %s (%s): %d faces\n", name, s.scene.Shapes[i].Kind, len(rows))
		for _, row := range rows {
			fmt.Fprintln(w, formatRow(row))
		}
	}
	return nil
}

func formatRow(row []float32) string {
	parts := make([]string, len(row))
	for i, f := range row {
		parts[i] = strconv.FormatFloat(float64(f), 'g', 6, 32)
	}
	return strings.Join(parts, " ")
}

func formatVec(v []float32) string {
	return "(" + formatRow(v) + ")"
}
