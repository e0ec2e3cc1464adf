package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/service"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/messaging"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/metrics"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/observability"
)

// globalOptions apply to every subcommand.
type globalOptions struct {
	JSON    bool `long:"json" description:"Print results as JSON"`
	Verbose bool `short:"v" long:"verbose" description:"Log debug output to stderr"`
}

// app holds the use cases shared by the subcommands. It is built once the
// global options are parsed.
type app struct {
	opts     *globalOptions
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	evaluate *usecase.EvaluateRisk
	classify *usecase.ClassifyProfile
	tiers    *usecase.ListRiskTiers
}

func (a *app) init() error {
	level := "warn"
	if a.opts.Verbose {
		level = "debug"
	}
	a.logger = observability.InitLogger(observability.LogConfig{
		Output: a.errOut,
		Level:  level,
		Format: "text",
	})

	recorder, err := metrics.NewRecorder(noop.NewMeterProvider())
	if err != nil {
		return err
	}
	publisher := messaging.NewLogPublisher(a.logger)
	classifier := service.NewRiskClassifier()

	a.evaluate = usecase.NewEvaluateRisk(publisher, recorder, classifier, a.logger)
	a.classify = usecase.NewClassifyProfile(publisher, recorder, classifier, a.logger)
	a.tiers = usecase.NewListRiskTiers()
	return nil
}

// run parses args and executes the selected subcommand.
func run(args []string, out, errOut io.Writer) error {
	opts := &globalOptions{}
	a := &app{opts: opts, out: out, errOut: errOut}

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "riskctl"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := a.init(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"evaluate", "Evaluate an application file", "Evaluate a JSON application with a primary applicant and an optional co-buyer.", &evaluateCommand{app: a}},
		{"classify", "Classify an aggregated profile", "Score already aggregated applicant figures without applicant validation.", &classifyCommand{app: a}},
		{"tiers", "List risk tiers", "Print the risk tier table.", &tiersCommand{app: a}},
		{"certs", "Generate development TLS certificates", "Write a development CA and server certificate for riskd.", &certsCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		fmt.Fprintln(errOut, err)
		return err
	}
	return nil
}

// printAssessment writes either the JSON response or the human summary.
func (a *app) printAssessment(resp dto.EvaluateRiskResponse) error {
	if a.opts.JSON {
		return a.printJSON(resp)
	}

	if resp.ApplicantName != "" {
		fmt.Fprintf(a.out, "Applicant: %s\n", resp.ApplicantName)
	}
	fmt.Fprintf(a.out, "Score: %d\n", resp.Score)
	tierColor(resp.Tier).Fprintln(a.out, resp.Banner)
	fmt.Fprintln(a.out, "Factors:")
	for _, f := range resp.Factors {
		fmt.Fprintf(a.out, "- %s\n", f)
	}
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func tierColor(tier string) *color.Color {
	switch strings.ToUpper(tier) {
	case valueobject.RiskTierHigh.String():
		return color.New(color.FgRed, color.Bold)
	case valueobject.RiskTierModerate.String():
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}
