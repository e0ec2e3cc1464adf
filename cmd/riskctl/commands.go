package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/tlsutil"
)

// amount is a money command-line value. Its float kind lets go-flags accept
// a negative value passed as a separate argument, as in --net-income -500.
type amount float64

// UnmarshalFlag implements flags.Unmarshaler.
func (a *amount) UnmarshalFlag(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid amount %q", value)
	}
	*a = amount(d.InexactFloat64())
	return nil
}

// Decimal returns the shortest decimal that round-trips the parsed value.
func (a amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(a))
}

type evaluateCommand struct {
	app  *app
	File string `short:"f" long:"file" required:"true" description:"Application JSON file, - for stdin"`
}

func (c *evaluateCommand) Execute(_ []string) error {
	var in io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("open application: %w", err)
		}
		defer f.Close()
		in = f
	}

	var req dto.EvaluateRiskRequest
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("decode application: %w", err)
	}

	resp, err := c.app.evaluate.Execute(context.Background(), req)
	if err != nil {
		return err
	}
	return c.app.printAssessment(resp)
}

type classifyCommand struct {
	app              *app
	EmploymentType   string `short:"t" long:"employment-type" required:"true" choice:"W2" choice:"Self-Employed" choice:"Cash Paid" choice:"1099" description:"Employment type"`
	Income           amount `long:"income" required:"true" description:"Total monthly income"`
	NetIncome        amount `long:"net-income" required:"true" description:"Net monthly income after expenses, may be negative"`
	CarPayment       amount `long:"car-payment" required:"true" description:"Monthly car payment"`
	Downpayment      amount `long:"downpayment" default:"0" description:"Downpayment"`
	TradeIn          amount `long:"trade-in" default:"0" description:"Trade-in value"`
	EmploymentLength int    `short:"l" long:"employment-length" required:"true" description:"Months in current job"`
	Age              int    `short:"a" long:"age" required:"true" description:"Applicant age"`
	Bankruptcies     int    `long:"bankruptcies" default:"0" description:"Past bankruptcies"`
	Repossessions    int    `long:"repossessions" default:"0" description:"Past repossessions"`
}

func (c *classifyCommand) Execute(_ []string) error {
	resp, err := c.app.classify.Execute(context.Background(), dto.ClassifyProfileRequest{
		ProfileDTO: dto.ProfileDTO{
			EmploymentType:         c.EmploymentType,
			TotalMonthlyIncome:     c.Income.Decimal(),
			NetMonthlyIncome:       c.NetIncome.Decimal(),
			MonthlyCarPayment:      c.CarPayment.Decimal(),
			Downpayment:            c.Downpayment.Decimal(),
			TradeInValue:           c.TradeIn.Decimal(),
			EmploymentLengthMonths: c.EmploymentLength,
			Age:                    c.Age,
			BankruptcyCount:        c.Bankruptcies,
			RepossessionCount:      c.Repossessions,
		},
	})
	if err != nil {
		return err
	}
	return c.app.printAssessment(resp)
}

type tiersCommand struct {
	app *app
}

func (c *tiersCommand) Execute(_ []string) error {
	resp := c.app.tiers.Execute(context.Background())
	if c.app.opts.JSON {
		return c.app.printJSON(resp)
	}
	for _, t := range resp.Tiers {
		tierColor(t.Name).Fprintf(c.app.out, "%-9s", t.Name)
		fmt.Fprintf(c.app.out, " >= %-2d %s\n", t.MinScore, t.Banner)
	}
	return nil
}

type certsCommand struct {
	app   *app
	Hosts []string `long:"host" default:"localhost" default:"127.0.0.1" description:"Host name or IP the server certificate is valid for (repeatable)"`
	Out   string   `short:"o" long:"out" default:"certs" description:"Output directory"`
}

func (c *certsCommand) Execute(_ []string) error {
	if err := tlsutil.GenerateSelfSignedCert(c.Hosts, c.Out); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "wrote ca.pem, server.pem and server-key.pem to %s for %s\n", c.Out, strings.Join(c.Hosts, ", "))
	return nil
}
