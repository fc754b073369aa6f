// cmd/bomctl/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"oci-bom-generator/internal/app"
	"oci-bom-generator/internal/common/config"
	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/models"
	fetchcatalog "oci-bom-generator/internal/workers/catalog/fetch-catalog"
	"oci-bom-generator/pkg/registry"
)

// =============================================================================
// SHARED
// =============================================================================

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	cfg, err := config.Load()
	if err != nil {
		// No config file next to the binary: run on defaults.
		return config.Default(), nil
	}
	return cfg, nil
}

func openRuntime(c *cli.Context, offline bool) (*app.Runtime, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	log := logger.NewStructured(c.String("log-level"), "console", "stderr")
	return app.Bootstrap(c.Context, cfg, log, app.Options{
		Offline:    offline || c.Bool("offline"),
		MaxRetries: 3,
		Registerer: prometheus.NewRegistry(),
	})
}

// requirementsText reads -r, or the document given with --file.
func requirementsText(c *cli.Context, rt *app.Runtime) (string, error) {
	text := strings.TrimSpace(c.String("requirements"))
	path := c.String("file")
	if path == "" {
		if text == "" {
			return "", fmt.Errorf("either --requirements or --file is required")
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := rt.Documents.Parse(c.Context, filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	if text != "" {
		return text + "\n\n" + out.Content, nil
	}
	return out.Content, nil
}

func parseAnswers(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	answers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("answer %q must look like key=value", pair)
		}
		answers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return answers, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// GENERATE COMMAND
// =============================================================================

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Run the full pipeline and write the workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "requirements", Aliases: []string{"r"}, Usage: "Requirement text"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read requirements from a document (txt, csv, md, xlsx, docx, pdf, image)"},
			&cli.StringFlag{Name: "provider", Aliases: []string{"p"}, Usage: "LLM provider id (defaults to llm.default_provider)"},
			&cli.StringFlag{Name: "currency", Value: "USD", Usage: "Currency label for the workbook"},
			&cli.StringSliceFlag{Name: "answer", Aliases: []string{"a"}, Usage: "Follow-up answer as key=value, repeatable"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "Directory for the xlsx file"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	rt, err := openRuntime(c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	text, err := requirementsText(c, rt)
	if err != nil {
		return err
	}
	answers, err := parseAnswers(c.StringSlice("answer"))
	if err != nil {
		return err
	}

	result, err := rt.Pipeline.Generate(c.Context, models.GenerateRequest{
		Requirements:    text,
		LLMProvider:     c.String("provider"),
		FollowUpAnswers: answers,
		Currency:        c.String("currency"),
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	if result.NeedsFollowUp {
		fmt.Fprintln(w, "More detail is needed. Re-run with --answer <id>=<text> for:")
		for _, q := range result.Questions {
			fmt.Fprintf(w, "  %s: %s\n", q.ID, q.Question)
		}
		return nil
	}

	if err := os.MkdirAll(c.String("out"), 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.String("out"), result.Workbook.Filename)
	if err := os.WriteFile(path, result.Workbook.Data, 0o644); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tDESCRIPTION\tQTY\tUNIT\tUNIT PRICE")
	for _, item := range result.Draft.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.Identifier, item.Description, item.Quantity, item.BillingUnit, item.UnitPrice.StringFixed(4))
	}
	tw.Flush()

	if summary := result.Draft.ComplianceSummary; summary != nil {
		for _, r := range summary.Rejected {
			fmt.Fprintf(w, "rejected %s: %s\n", r.Identifier, r.Reason)
		}
	}
	fmt.Fprintf(w, "\nMonthly: %s %s  Annual: %s %s\n",
		result.Workbook.MonthlyTotal.StringFixed(2), strings.ToUpper(c.String("currency")),
		result.Workbook.AnnualTotal.StringFixed(2), strings.ToUpper(c.String("currency")))
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// =============================================================================
// CATALOG COMMAND
// =============================================================================

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List catalog categories and services",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "Only list services in this category"},
			&cli.BoolFlag{Name: "categories", Usage: "Only list category names"},
			&cli.BoolFlag{Name: "refresh", Usage: "Reload the catalog instead of using the cache"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Action: func(c *cli.Context) error {
			rt, err := openRuntime(c, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			loaded, err := rt.Pipeline.Stages().Catalog.Execute(c.Context, &fetchcatalog.Input{Refresh: c.Bool("refresh")})
			if err != nil {
				return err
			}
			if c.Bool("categories") {
				categories := loaded.Categories
				if c.Bool("json") {
					return printJSON(c.App.Writer, map[string]interface{}{"categories": categories})
				}
				for _, name := range categories {
					fmt.Fprintln(c.App.Writer, name)
				}
				return nil
			}

			services := filterCategory(loaded.Services, c.String("category"))
			if c.Bool("json") {
				return printJSON(c.App.Writer, services)
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tPRICE\tUNIT")
			for _, s := range services {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Identifier, s.Category, s.DisplayName, s.Pricing.UnitPrice.String(), s.Pricing.BillingUnit)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "\n%d services from %s\n", len(services), loaded.Source)
			return nil
		},
	}
}

func filterCategory(services []models.CatalogService, category string) []models.CatalogService {
	if category == "" {
		return services
	}
	out := make([]models.CatalogService, 0, len(services))
	for _, s := range services {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// CONSTRAINTS COMMAND
// =============================================================================

func constraintsCommand() *cli.Command {
	return &cli.Command{
		Name:  "constraints",
		Usage: "Print the constraints and intent read from requirement text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "requirements", Aliases: []string{"r"}, Usage: "Requirement text"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read requirements from a document"},
			&cli.StringSliceFlag{Name: "answer", Aliases: []string{"a"}, Usage: "Follow-up answer as key=value, repeatable"},
		},
		Action: func(c *cli.Context) error {
			rt, err := openRuntime(c, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			text, err := requirementsText(c, rt)
			if err != nil {
				return err
			}
			answers, err := parseAnswers(c.StringSlice("answer"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, rt.Pipeline.Interpret(c.Context, text, answers))
		},
	}
}

// =============================================================================
// PROVIDERS COMMAND
// =============================================================================

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "Inspect the LLM provider registry",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List providers and whether credentials are configured",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
				},
				Action: func(c *cli.Context) error {
					rt, err := openRuntime(c, true)
					if err != nil {
						return err
					}
					defer rt.Close()

					if c.Bool("json") {
						return printJSON(c.App.Writer, rt.Registry.Summaries())
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME\tMODEL\tCOST\tCONFIGURED")
					for _, p := range rt.Registry.Providers {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", p.ID, p.Name, p.DefaultModel, p.Cost, rt.Providers.Configured(p.ID))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "validate",
				Usage:     "Check a provider registry file",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("registry path is required")
					}
					reg, err := registry.LoadRegistry(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Registry %s is valid: %d providers (%s)\n",
						path, len(reg.Providers), strings.Join(reg.IDs(), ", "))
					return nil
				},
			},
		},
	}
}
