package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"assesscli/internal/analysis"
	"assesscli/internal/dataset"
	"assesscli/internal/exporter"
)

func main() {
	preFile := flag.String("pre", "", "pre-assessment workbook (.xlsx)")
	postFile := flag.String("post", "", "post-assessment workbook (.xlsx)")
	feedbackFile := flag.String("feedback", "", "feedback workbook (.xlsx)")
	category := flag.String("category", "post", "analysis category: pre, post or feedback")
	outDir := flag.String("out", "", "export CSV files into this directory")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *preFile, *postFile, *feedbackFile, *category, *outDir); err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, preFile, postFile, feedbackFile, category, outDir string) error {
	cat, err := analysis.ParseCategory(category)
	if err != nil {
		return err
	}

	req := analysis.Request{Category: cat}
	if preFile != "" {
		if req.Pre, err = dataset.LoadWorkbook(preFile, dataset.LoadOptions{}, logger); err != nil {
			return fmt.Errorf("loading pre workbook: %w", err)
		}
	}
	if postFile != "" {
		if req.Post, err = dataset.LoadWorkbook(postFile, dataset.LoadOptions{}, logger); err != nil {
			return fmt.Errorf("loading post workbook: %w", err)
		}
	}
	if feedbackFile != "" {
		if req.Feedback, err = dataset.LoadWorkbook(feedbackFile, dataset.LoadOptions{}, logger); err != nil {
			return fmt.Errorf("loading feedback workbook: %w", err)
		}
	}

	result, err := analysis.NewAnalyzer(logger).Analyze(context.Background(), req)
	if err != nil {
		return err
	}

	if outDir != "" {
		writer := exporter.NewCSVWriter(outDir, logger)
		files, err := exporter.NewResultExporter(writer).ExportAll(result, ".")
		if err != nil {
			return fmt.Errorf("exporting results: %w", err)
		}
		for _, f := range files {
			logger.Info("wrote export", slog.String("file", f))
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
