package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  pubkit config                              # Show all config
  pubkit config author                       # Get a value
  pubkit config author "Bulbulia, Joseph A." # Set a value

Keys:
  author           Target individual; non-matching entries are dropped by clean
  bib              Canonical bibliography file
  raw              Default raw export read by clean
  cv-tex           Legacy LaTeX CV read by merge-pdf and missing
  pdf-root         Folder of local PDFs scanned by attach
  title-threshold  Fuzzy title-match cutoff in (0, 1]`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	Author         string  `json:"author"`
	Bib            string  `json:"bib"`
	Raw            string  `json:"raw"`
	CVTex          string  `json:"cv_tex"`
	PDFRoot        string  `json:"pdf_root,omitempty"`
	TitleThreshold float64 `json:"title_threshold"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("author:          %s\n", cfg.Author)
			fmt.Printf("bib:             %s\n", cfg.Bib)
			fmt.Printf("raw:             %s\n", cfg.Raw)
			fmt.Printf("cv-tex:          %s\n", cfg.CVTex)
			fmt.Printf("pdf-root:        %s\n", cfg.PDFRoot)
			fmt.Printf("title-threshold: %g\n", cfg.TitleThreshold)
		} else {
			outputJSON(ConfigResponse{
				Author:         cfg.Author,
				Bib:            cfg.Bib,
				Raw:            cfg.Raw,
				CVTex:          cfg.CVTex,
				PDFRoot:        cfg.PDFRoot,
				TitleThreshold: cfg.TitleThreshold,
			})
		}
		return nil
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		value, ok := getKey(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	value := args[1]
	if err := setKey(cfg, key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}

	return nil
}

func getKey(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "author":
		return cfg.Author, true
	case "bib":
		return cfg.Bib, true
	case "raw":
		return cfg.Raw, true
	case "cv-tex":
		return cfg.CVTex, true
	case "pdf-root":
		return cfg.PDFRoot, true
	case "title-threshold":
		return strconv.FormatFloat(cfg.TitleThreshold, 'g', -1, 64), true
	}
	return "", false
}

func setKey(cfg *config.Config, key, value string) error {
	switch key {
	case "author":
		cfg.Author = value
	case "bib":
		cfg.Bib = value
	case "raw":
		cfg.Raw = value
	case "cv-tex":
		cfg.CVTex = value
	case "pdf-root":
		cfg.PDFRoot = value
	case "title-threshold":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("title-threshold must be a number: %v", err)
		}
		cfg.TitleThreshold = t
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// normalizeKey converts key formats (cv_tex, cv-tex, CVTex) to a consistent
// form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
