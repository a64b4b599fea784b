// Command penaltycalc computes GST and TDS late penalties from the command line.
//
//	penaltycalc gst --type gstr3b --amount 50000 --due 2025-01-31 --filed 2025-03-31 --tax-paid-late
//	penaltycalc tds --type contractor --amount 50000 --due 2025-01-15 --filed 2025-02-09 --text
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"taxdesk-backend/internal/models"
	"taxdesk-backend/internal/penalty"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	common := []cli.Flag{
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "return type (gst) or deduction type (tds)", Required: true},
		&cli.StringFlag{Name: "amount", Aliases: []string{"a"}, Usage: "tax amount in rupees", Required: true},
		&cli.StringFlag{Name: "due", Usage: "due date, YYYY-MM-DD", Required: true},
		&cli.StringFlag{Name: "filed", Usage: "filing date, YYYY-MM-DD", Required: true},
		&cli.BoolFlag{Name: "text", Usage: "print a plain-text summary instead of JSON"},
	}

	return &cli.App{
		Name:      "penaltycalc",
		Usage:     "compute GST and TDS late fees and interest",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "gst",
				Usage: "late fee and interest for a GST return",
				Flags: append(common, &cli.BoolFlag{Name: "tax-paid-late", Usage: "tax was also paid after the due date"}),
				Action: func(c *cli.Context) error {
					req := &models.GSTPenaltyRequest{
						ReturnType:  c.String("type"),
						TaxAmount:   quote(c.String("amount")),
						DueDate:     c.String("due"),
						FilingDate:  c.String("filed"),
						TaxPaidLate: c.Bool("tax-paid-late"),
					}
					return run(c, req, penalty.DomainGST, penalty.ComputeGSTPenalty)
				},
			},
			{
				Name:  "tds",
				Usage: "late fee and interest for a TDS return",
				Flags: append(common, &cli.StringFlag{Name: "deposited", Usage: "date the deducted tax was deposited, YYYY-MM-DD"}),
				Action: func(c *cli.Context) error {
					req := &models.TDSPenaltyRequest{
						DeductionType: c.String("type"),
						TaxAmount:     quote(c.String("amount")),
						DueDate:       c.String("due"),
						FilingDate:    c.String("filed"),
						DepositDate:   c.String("deposited"),
					}
					return run(c, req, penalty.DomainTDS, penalty.ComputeTDSPenalty)
				},
			},
			{
				Name:  "rules",
				Usage: "list the rule table for gst or tds",
				Action: func(c *cli.Context) error {
					domain, err := penalty.ParseDomain(c.Args().First())
					if err != nil {
						return fmt.Errorf("usage: penaltycalc rules gst|tds")
					}
					rules := []models.RuleResponse{}
					for _, p := range penalty.Policies(domain) {
						rules = append(rules, models.NewRuleResponse(p))
					}
					return writeJSON(c.App.Writer, rules)
				},
			},
		},
	}
}

func quote(s string) json.RawMessage {
	return json.RawMessage(strconv.Quote(s))
}

func run(c *cli.Context, req models.PenaltyRequest, domain penalty.Domain, compute func(penalty.Input) (penalty.Result, error)) error {
	in, errs := req.ToInput()
	if len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for field, msg := range errs {
			fields = append(fields, fmt.Sprintf("%s: %s", field, msg))
		}
		sort.Strings(fields)
		return fmt.Errorf("invalid input: %s", strings.Join(fields, "; "))
	}

	res, err := compute(in)
	if err != nil {
		return err
	}

	resp := models.NewPenaltyResponse(domain, res)
	if c.Bool("text") {
		return writeText(c.App.Writer, resp)
	}
	return writeJSON(c.App.Writer, resp)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, r models.PenaltyResponse) error {
	_, err := fmt.Fprintf(w,
		"%s %s: %s\n  days late:  %d\n  late fee:   Rs %d\n  interest:   Rs %d (%d days)\n  total:      Rs %d\n",
		strings.ToUpper(r.Domain), r.RuleKey, r.StatusLabel,
		r.DaysLate, r.LateFee, r.InterestAmount, r.InterestDays, r.TotalPenalty)
	return err
}
