package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobmcallan/ollie/internal/app"
	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ollie", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		ticker      = fs.String("ticker", "", "ticker symbol to analyze (e.g. AAPL or AAPL.US)")
		persona     = fs.String("persona", "", "persona key (default from config; see -personas)")
		out         = fs.String("out", "", "directory for the saved prompt file (overrides config)")
		runAI       = fs.Bool("run", false, "send the prompt to Gemini and print the analysis")
		force       = fs.Bool("force", false, "force refresh of cached market data")
		noSave      = fs.Bool("no-save", false, "skip writing the prompt file")
		listFlag    = fs.Bool("personas", false, "list available personas and exit")
		configPath  = fs.String("config", "", "path to config file")
		showVersion = fs.Bool("version", false, "print version and exit")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, common.GetFullVersion())
		return 0
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer a.Close()

	if *listFlag {
		printPersonas(stdout, a)
		return 0
	}

	if strings.TrimSpace(*ticker) == "" {
		fmt.Fprintln(stderr, "Usage: ollie -ticker SYMBOL [-persona KEY] [-out DIR] [-run]")
		fs.PrintDefaults()
		return 2
	}

	if *out != "" {
		a.Config.Prompt.OutputDir = *out
	}

	ctx := context.Background()

	prompt, err := a.PromptService.Generate(ctx, *ticker, interfaces.GenerateOptions{
		PersonaKey:   *persona,
		ForceRefresh: *force,
		SaveToFile:   !*noSave,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to generate prompt: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, prompt.Text)

	if prompt.FilePath != "" {
		fmt.Fprintf(stderr, "\nPrompt saved to %s\n", prompt.FilePath)
	}

	if *runAI {
		if a.GeminiClient == nil {
			fmt.Fprintln(stderr, "Gemini API key not configured; cannot run analysis")
			return 1
		}
		analysis, err := a.GeminiClient.GenerateContent(ctx, prompt.Text)
		if err != nil {
			fmt.Fprintf(stderr, "Analysis failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\n=== %s on %s ===\n\n%s\n", prompt.PersonaName, prompt.Ticker, analysis)
	}

	return 0
}

func printPersonas(stdout io.Writer, a *app.App) {
	fmt.Fprintln(stdout, "Available personas:")
	for _, p := range a.PromptService.Personas() {
		fmt.Fprintf(stdout, "  %-10s %s\n", p.Key, p.Name)
	}
}
