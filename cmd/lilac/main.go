// Command lilac renders a Lilac script to an image file.
//
// Usage:
//
//	lilac [-config lilac.toml] [-in script.lilac] [-v] [-debug] [-ops] out.png
//
// The script is read from standard input unless -in is given. The output
// format follows the extension of out: .png, .jpg, .bmp or .tiff.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/lilac"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		inPath     = flag.String("in", "", "script file (default stdin)")
		verbose    = flag.Bool("v", false, "log progress")
		debug      = flag.Bool("debug", false, "log debug details")
		listOps    = flag.Bool("ops", false, "print registered operations and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lilac [flags] out.png\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("lilac: ")

	switch {
	case *debug:
		lilac.SetLogger(newLogger(slog.LevelDebug))
	case *verbose:
		lilac.SetLogger(newLogger(slog.LevelInfo))
	}

	cfg := lilac.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = lilac.LoadConfig(*configPath); err != nil {
			fail(err)
		}
	}
	eng := lilac.New(lilac.WithConfig(cfg))

	if *listOps {
		ops, err := eng.Operations()
		if err != nil {
			fail(err)
		}
		for _, name := range ops {
			fmt.Println(name)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(eng, *inPath, flag.Arg(0)); err != nil {
		fail(err)
	}
}

func run(eng *lilac.Engine, in, out string) error {
	var src io.Reader = os.Stdin
	if in != "" {
		f, err := os.Open(in) //nolint:gosec // script path is user-provided intentionally
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		src = f
	}
	raster, err := eng.Render(src)
	if err != nil {
		return err
	}
	return raster.Save(out)
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fail(err error) {
	log.Fatalf("%s: %v", lilac.Classify(err), err)
}
