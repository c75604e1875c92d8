// cmd/tools/intake-tool/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/form"
	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		help(stdout)
		return 1
	}

	catalog, err := i18n.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading locales: %v\n", err)
		return 1
	}

	switch args[0] {
	case "locales":
		return checkLocales(catalog, stdout)

	case "translate":
		cmd := flag.NewFlagSet("translate", flag.ContinueOnError)
		cmd.SetOutput(stderr)
		file := cmd.String("file", "", "Path to an application JSON document")
		lang := cmd.String("lang", "bg", "Payload language (bg, en)")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		app, l, err := readInput(*file, *lang)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		payload := form.BuildPayload(form.NewTranslator(catalog).Translate(app, l), app)
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			fmt.Fprintf(stderr, "Error encoding payload: %v\n", err)
			return 1
		}
		return 0

	case "submit":
		cmd := flag.NewFlagSet("submit", flag.ContinueOnError)
		cmd.SetOutput(stderr)
		file := cmd.String("file", "", "Path to an application JSON document")
		lang := cmd.String("lang", "bg", "Payload language (bg, en)")
		url := cmd.String("url", "http://127.0.0.1:8080/api/submit", "Relay endpoint")
		timeout := cmd.Duration("timeout", 30*time.Second, "Request timeout")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		app, l, err := readInput(*file, *lang)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		submitter := form.NewSubmitter(httpclient.NewClient(*timeout), *url, form.NewTranslator(catalog), logger.NewNoOpLogger())
		id, err := submitter.Submit(context.Background(), app, l)
		if err != nil {
			fmt.Fprintf(stderr, "Submission failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Submitted application: %s\n", id)
		return 0

	case "help":
		help(stdout)
		return 0

	default:
		help(stdout)
		return 1
	}
}

// checkLocales reports keys present in one language only and option labels
// missing from any language.
func checkLocales(catalog *i18n.Catalog, stdout io.Writer) int {
	failed := false
	for lang, keys := range catalog.Missing() {
		failed = true
		for _, k := range keys {
			fmt.Fprintf(stdout, "%s: missing %s\n", lang, k)
		}
	}

	for _, lang := range i18n.Languages {
		tr := catalog.For(lang)
		for _, o := range allOptions() {
			if !tr.Has(o.Key) {
				failed = true
				fmt.Fprintf(stdout, "%s: no label for option %s\n", lang, o.Key)
			}
		}
	}

	if failed {
		return 1
	}
	fmt.Fprintln(stdout, "Locale check passed.")
	return 0
}

func allOptions() []form.Option {
	groups := [][]form.Option{
		form.Standards, form.ApplicationTypes, form.YesNo, form.AutomationLevels,
		form.SiteTypes, form.AuditLanguages, form.MultiSiteStatements,
		form.IntegratedStatements, form.ISO39001Statements, form.TransferDocuments,
		form.SensitiveProcesses, form.ISO27001Access,
	}
	groups = append(groups, form.ISO27001Categories[:]...)

	var out []form.Option
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// readInput decodes an application document over the empty form so absent
// members keep their defaults.
func readInput(path, lang string) (models.Application, i18n.Language, error) {
	l, ok := i18n.ParseLanguage(lang)
	if !ok {
		return models.Application{}, "", fmt.Errorf("unsupported language %q", lang)
	}
	if path == "" {
		return models.Application{}, "", fmt.Errorf("-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Application{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	app := form.New()
	if err := json.Unmarshal(data, &app); err != nil {
		return models.Application{}, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return app, l, nil
}

func help(w io.Writer) {
	fmt.Fprintln(w, `
Usage: intake-tool <command> [flags]

Commands:
  locales    Check that both locales define the same keys and every option label
  translate  Print the relay payload an application document would produce
  submit     Validate, translate and send an application document to the relay
  help       Show this help message

Examples:
  intake-tool locales
  intake-tool translate -file application.json -lang en
  intake-tool submit -file application.json -url http://localhost:8080/api/submit

Use 'intake-tool <command> -h' for more information about a command.`)
}
