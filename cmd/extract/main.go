// Command extract converts delivery-protocol PDFs to CSV without the HTTP
// service:
//
//	extract [-provider guarida] [-out dir] [-workers N] file.pdf...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/MalithGihan/protocol-extract/internal/export"
	"github.com/MalithGihan/protocol-extract/internal/extraction"
	"github.com/MalithGihan/protocol-extract/internal/parser"
	"github.com/MalithGihan/protocol-extract/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		provider = flag.String("provider", parser.ProviderGuarida, "document layout (guarida, protocolo)")
		outDir   = flag.String("out", "", "write <name>.csv files here instead of stdout")
		workers  = flag.Int("workers", runtime.NumCPU(), "files processed in parallel")
		timeout  = flag.Duration("timeout", time.Minute, "per-document extraction budget")
		logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: extract [-provider guarida] [-out dir] [-workers N] file.pdf...")
		os.Exit(2)
	}
	if len(files) > 1 && *outDir == "" {
		fmt.Fprintln(os.Stderr, "extract: -out is required with more than one file")
		os.Exit(2)
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			logger.Fatal(err)
		}
	}

	svc := extraction.NewService(parser.NewRegistry(logger), store.NewMemory(0), logger, extraction.Options{
		Timeout:         *timeout,
		DefaultProvider: *provider,
	})

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*workers, 1))
	for _, path := range files {
		g.Go(func() error {
			return convert(ctx, svc, path, *provider, *outDir)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal(err)
	}
}

func convert(ctx context.Context, svc *extraction.Service, path, provider, outDir string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, records, err := svc.Process(ctx, filepath.Base(path), content, provider)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out, err := export.CSV(records)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if outDir == "" {
		_, err = os.Stdout.WriteString(out)
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".csv"
	return os.WriteFile(filepath.Join(outDir, name), []byte(out), 0o644)
}
