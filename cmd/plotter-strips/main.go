package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/plotter-strips/internal/config"
	"github.com/ironsheep/plotter-strips/internal/export"
	"github.com/ironsheep/plotter-strips/internal/imaging"
	"github.com/ironsheep/plotter-strips/internal/layout"
	"github.com/ironsheep/plotter-strips/internal/plotter"
	"github.com/ironsheep/plotter-strips/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol and plan output)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("PLOTTER_STRIPS_LOG_LEVEL") == "debug" {
		plotter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		log.Printf("plotter-strips v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plotter-strips %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		case "plan":
			if err := runPlan(os.Args[2:], os.Stdout); err != nil {
				log.Fatalf("plan: %v", err)
			}
			return
		case "render":
			if err := runRender(os.Args[2:], os.Stdout); err != nil {
				log.Fatalf("render: %v", err)
			}
			return
		case "serve":
		default:
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}

	server.Version = Version
	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "plotter-strips - cut oversized images into strips for a narrow plotter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  plotter-strips [serve]                       Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  plotter-strips plan [flags] <image>          Print the strip arrangements as JSON")
	fmt.Fprintln(w, "  plotter-strips render [flags] <image>        Write the mosaic with cut marks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags for plan and render:")
	fmt.Fprintln(w, "  -count N             Number of strips (required)")
	fmt.Fprintln(w, "  -dpi N               Source resolution (default: source_dpi setting)")
	fmt.Fprintln(w, "  -region L,T,W,H      Part of the image to use, in pixels")
	fmt.Fprintln(w, "  -printer-width IN    Printable width in inches (default: printer_width setting)")
	fmt.Fprintln(w, "  -config PATH         Settings file")
	fmt.Fprintln(w, "  -out PATH            Output file for render; .png writes PNG, otherwise PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  PLOTTER_STRIPS_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintf(w, "  %s=PATH            Settings file (default %s)\n", config.EnvConfigPath, "~/.plotter-strips/settings.json")
}

// jobFlags are shared by plan and render.
type jobFlags struct {
	count        int
	dpi          float64
	region       string
	printerWidth float64
	configPath   string
	output       string
}

func newFlagSet(name string, withOutput bool) (*flag.FlagSet, *jobFlags) {
	f := &jobFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&f.count, "count", 0, "number of strips")
	fs.Float64Var(&f.dpi, "dpi", 0, "source resolution in pixels per inch")
	fs.StringVar(&f.region, "region", "", "left,top,width,height in pixels")
	fs.Float64Var(&f.printerWidth, "printer-width", 0, "printable width in inches")
	fs.StringVar(&f.configPath, "config", config.DefaultPath(), "settings file")
	if withOutput {
		fs.StringVar(&f.output, "out", "", "output file (.png or .pdf)")
	}
	return fs, f
}

// parseRegion reads "left,top,width,height".
func parseRegion(s string) (imaging.CutRegion, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.CutRegion{}, fmt.Errorf("region %q: want left,top,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return imaging.CutRegion{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	return imaging.CutRegion{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

// buildRequest parses args and loads the source image.
func buildRequest(fs *flag.FlagSet, f *jobFlags, args []string) (plotter.Request, error) {
	if err := fs.Parse(args); err != nil {
		return plotter.Request{}, err
	}
	if fs.NArg() != 1 {
		return plotter.Request{}, errors.New("expected exactly one image path")
	}

	settings, err := config.Load(f.configPath)
	if err != nil {
		return plotter.Request{}, err
	}

	dpi := settings.SourceDPI
	if f.dpi != 0 {
		dpi = f.dpi
	}
	img, err := imaging.NewImageCache().Load(fs.Arg(0), dpi)
	if err != nil {
		return plotter.Request{}, err
	}

	req := plotter.Request{
		Source:  img,
		Count:   f.count,
		Printer: settings.Constraint(),
		Overlay: settings.Overlay(),
	}
	if f.printerWidth != 0 {
		req.Printer.MaxWidthInches = f.printerWidth
	}
	if f.region != "" {
		if req.Region, err = parseRegion(f.region); err != nil {
			return plotter.Request{}, err
		}
	}
	return req, nil
}

type planOutput struct {
	Chosen     *layout.Summary  `json:"chosen,omitempty"`
	Candidates []layout.Summary `json:"candidates"`
	Error      string           `json:"error,omitempty"`
}

func runPlan(args []string, out io.Writer) error {
	fs, f := newFlagSet("plan", false)
	req, err := buildRequest(fs, f, args)
	if err != nil {
		return err
	}

	_, plan, candidates, err := plotter.Plan(req)
	result := planOutput{Candidates: layout.SummarizeAll(candidates)}
	if err != nil {
		if !errors.Is(err, layout.ErrImageTooLarge) {
			return err
		}
		result.Error = err.Error()
	} else {
		chosen := layout.Summarize(plan)
		result.Chosen = &chosen
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	return err
}

func runRender(args []string, out io.Writer) error {
	fs, f := newFlagSet("render", true)
	req, err := buildRequest(fs, f, args)
	if err != nil {
		return err
	}
	if f.output == "" {
		return errors.New("-out is required")
	}

	res, err := plotter.Process(req)
	if err != nil {
		return err
	}
	if err := export.Write(f.output, res.Mosaic); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s layout, %dx%d px, %.2fin x %.2fin\n",
		f.output, res.Plan.Kind(), res.Mosaic.Width(), res.Mosaic.Height(),
		res.Mosaic.WidthInches(), res.Mosaic.HeightInches())
	return nil
}
