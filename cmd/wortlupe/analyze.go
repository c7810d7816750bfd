package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wortlupe/wortlupe/engine"
	"github.com/wortlupe/wortlupe/extract"
	"github.com/wortlupe/wortlupe/render"
)

func analyzeCmd() *cobra.Command {
	var (
		text    string
		rawURL  string
		outPath string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|glob ...]",
		Short: "Annotate German text and write the reading view",
		Long: `Analyze renders German input as an interactive HTML reading view.

Input comes from file arguments (globs like 'texte/**/*.txt' work), from
--text, from --url, or from stdin when the single argument is '-'. Each
input produces one HTML file.`,
		Example: `  wortlupe analyze maerchen.txt
  wortlupe analyze --text "Der Hund läuft schnell." -o hund.html
  wortlupe analyze --url https://www.dw.com/de/... -o artikel.html
  wortlupe analyze "texte/*.txt" -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(text, rawURL, outPath, title, args)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "German text to analyze")
	cmd.Flags().StringVar(&rawURL, "url", "", "Article URL to fetch and analyze")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output HTML file, or directory for multiple inputs")
	cmd.Flags().StringVar(&title, "title", "", "Page title override")

	return cmd
}

// analyzeJob is one input document plus the name its output defaults to.
type analyzeJob struct {
	doc     extract.Document
	outName string
}

func runAnalyze(text, rawURL, outPath, title string, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := collectJobs(ctx, text, rawURL, args)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no input: pass file arguments, --text, --url, or '-' for stdin")
	}

	for _, job := range jobs {
		if err := runJob(ctx, analyzer, job, outPath, title, len(jobs) > 1); err != nil {
			return err
		}
	}

	return nil
}

// collectJobs gathers input documents in precedence order: --text, --url,
// then file arguments ('-' reads stdin).
func collectJobs(ctx context.Context, text, rawURL string, args []string) ([]analyzeJob, error) {
	if text != "" {
		return []analyzeJob{{
			doc:     extract.Document{Title: "Pasted Text", Text: extract.NormalizeText(text)},
			outName: "wortlupe.html",
		}}, nil
	}

	if rawURL != "" {
		doc, err := extract.FromURL(ctx, nil, rawURL)
		if err != nil {
			return nil, err
		}
		return []analyzeJob{{doc: doc, outName: "wortlupe.html"}}, nil
	}

	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []analyzeJob{{
			doc:     extract.Document{Title: "Stdin", Text: extract.NormalizeText(string(data))},
			outName: "wortlupe.html",
		}}, nil
	}

	if len(args) == 0 {
		return nil, nil
	}

	files, err := extract.ResolveFiles(args)
	if err != nil {
		return nil, err
	}

	jobs := make([]analyzeJob, 0, len(files))
	for _, path := range files {
		doc, err := extract.FromFile(path)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		jobs = append(jobs, analyzeJob{doc: doc, outName: stem + ".html"})
	}
	return jobs, nil
}

// runJob analyzes one document and writes its reading view.
func runJob(ctx context.Context, analyzer *engine.Analyzer, job analyzeJob, outPath, title string, multi bool) error {
	body, err := analyzer.AnalyzeText(ctx, job.doc.Text)
	if err != nil {
		return err
	}

	pageTitle := title
	if pageTitle == "" {
		pageTitle = job.doc.Title
	}
	if pageTitle == "" {
		pageTitle = "Wortlupe"
	}

	dest, err := resolveOutPath(outPath, job.outName, multi)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, []byte(render.Page(pageTitle, body)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	fmt.Printf("Wrote %s\n", dest)
	return nil
}

// resolveOutPath decides where one output lands. With multiple inputs the
// --out flag names a directory; with a single input it names the file.
func resolveOutPath(outPath, outName string, multi bool) (string, error) {
	if outPath == "" {
		return outName, nil
	}

	if multi || strings.HasSuffix(outPath, string(os.PathSeparator)) || isDir(outPath) {
		if err := os.MkdirAll(outPath, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		return filepath.Join(outPath, outName), nil
	}

	return outPath, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
