package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/vancouver/check"
	"github.com/initializ/vancouver/config"
	"github.com/initializ/vancouver/criteria"
	"github.com/initializ/vancouver/report"
	"github.com/initializ/vancouver/trust"
	"github.com/initializ/vancouver/validate"
)

var (
	checkLock          string
	checkConfig        string
	checkAudits        string
	checkLimit         int
	checkIgnoreExempts bool
	checkAddExempts    bool
	checkRatchet       bool
	checkOutput        string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every locked dependency against its required criteria",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkLock, "lock", "Cargo.lock", "Lock file path")
	checkCmd.Flags().StringVar(&checkConfig, "config", "vancouver.toml", "Config file path")
	checkCmd.Flags().StringVar(&checkAudits, "audits", "audits.toml", "Audits ledger path")
	checkCmd.Flags().IntVar(&checkLimit, "limit", check.DefaultLimit, "Recursion limit for implication and delta chains")
	checkCmd.Flags().BoolVar(&checkIgnoreExempts, "ignore-exempts", false, "Evaluate as if config exemptions were absent")
	checkCmd.Flags().BoolVar(&checkAddExempts, "add-exempts", false, "Persist a minimal exemption per failure and exit 3")
	checkCmd.Flags().BoolVar(&checkRatchet, "ratchet", false, "Remove unused exemptions from the config")
	checkCmd.Flags().StringVar(&checkOutput, "output", "human", "Output format: human, json or yaml")

	checkCmd.MarkFlagsMutuallyExclusive("add-exempts", "ratchet")
	checkCmd.MarkFlagsMutuallyExclusive("ignore-exempts", "ratchet")
}

// Exit codes: 0 all passed, 1 failures present, 2 input or construction
// error (via the error return), 3 add-exempts wrote remediation entries.
func runCheck(cmd *cobra.Command, args []string) error {
	if checkOutput != "human" && checkOutput != "json" && checkOutput != "yaml" {
		return fmt.Errorf("unknown output format %q", checkOutput)
	}

	deps, err := config.LoadLock(checkLock)
	if err != nil {
		return err
	}
	cfg, err := config.Load(checkConfig)
	if err != nil {
		return err
	}
	audits, err := config.LoadAudits(checkAudits)
	if err != nil {
		return err
	}

	vr := validate.Inputs(cfg, audits)
	for _, w := range vr.Warnings {
		slog.Warn(w)
	}
	if !vr.IsValid() {
		for _, e := range vr.Errors {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
		}
		return fmt.Errorf("input validation failed: %d error(s)", len(vr.Errors))
	}

	rules := criteria.Compile(config.CriteriaDefs(audits.Criteria), config.CriteriaDefs(cfg.Criteria))
	store, err := trust.NewStore(cfg, audits, checkIgnoreExempts)
	if err != nil {
		return err
	}

	slog.Debug("checking dependencies", "count", len(deps), "limit", checkLimit)
	result := check.Run(deps, cfg, rules, store, checkLimit)
	rep := report.Build(result)

	if err := render(rep); err != nil {
		return err
	}

	if checkRatchet && len(result.Unused) > 0 {
		keys := make([]config.ExemptKey, 0, len(result.Unused))
		for _, u := range result.Unused {
			keys = append(keys, config.ExemptKey{Name: u.Name, Version: u.Version.String(), Criteria: u.Criteria})
		}
		if err := config.RemoveExempts(checkConfig, keys); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "ratcheted away %d unused exemption(s)\n", len(keys))
	}

	if result.TotalFailed == 0 {
		return nil
	}

	if checkAddExempts {
		keys := exemptKeysForFails(result)
		if err := config.AppendExempts(checkConfig, keys); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "added %d exemption(s) to %s\n", len(keys), checkConfig)
		os.Exit(3)
	}

	os.Exit(1)
	return nil
}

func render(rep *report.Report) error {
	switch checkOutput {
	case "json":
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	case "yaml":
		data, err := rep.YAML()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	default:
		fmt.Print(rep.Human(report.StdoutIsTerminal()))
	}
	return nil
}

func exemptKeysForFails(result *check.Result) []config.ExemptKey {
	var keys []config.ExemptKey
	seen := make(map[config.ExemptKey]struct{})
	for _, receipt := range result.Receipts {
		for _, f := range receipt.Fails {
			k := config.ExemptKey{Name: receipt.Name, Version: receipt.Version.String(), Criteria: f.Needed}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}
