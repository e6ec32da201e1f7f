package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/vancouver/config"
)

var (
	auditAudits   string
	auditCriteria string
	auditBase     string
	auditNotes    string
)

var auditCmd = &cobra.Command{
	Use:   "audit <name> <version>",
	Short: "Record an audit in the ledger",
	Long: `Record that <name> at <version> was audited for a criterion. With
--base, the audit covers only the changes from the base version, so it
holds whenever the base version itself is trusted.`,
	Args: cobra.ExactArgs(2),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditAudits, "audits", "audits.toml", "Audits ledger path")
	auditCmd.Flags().StringVar(&auditCriteria, "criteria", "", "Criterion the audit vouches for")
	auditCmd.Flags().StringVar(&auditBase, "base", "", "Base version for a delta audit")
	auditCmd.Flags().StringVar(&auditNotes, "notes", "", "Free-form notes")
	_ = auditCmd.MarkFlagRequired("criteria")
}

func runAudit(cmd *cobra.Command, args []string) error {
	name, ver := args[0], args[1]

	entry := config.Entry{Criteria: auditCriteria, Notes: auditNotes}
	if auditBase != "" {
		entry.Delta = fmt.Sprintf("%s -> %s", auditBase, ver)
	} else {
		entry.Version = ver
	}

	if err := config.AddAudit(auditAudits, name, entry); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "recorded audit for %s %s\n", name, ver)
	return nil
}
