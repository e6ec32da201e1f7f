package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/vancouver/config"
)

var (
	mergeAudits     string
	mergeFile       string
	mergeIdentifier string
	mergeIsolate    bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge a foreign audits ledger into ours",
	Long: `Merge the audits from another ledger. Entries marked private are
skipped, duplicates are collapsed, and new entries are tagged with the
identifier so a later merge from the same source can prune audits it no
longer vouches for. With --isolate, merged criteria are namespaced as
"<identifier>:<criteria>" and kept private.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeAudits, "audits", "audits.toml", "Audits ledger path")
	mergeCmd.Flags().StringVar(&mergeFile, "file", "", "Ledger to merge from")
	mergeCmd.Flags().StringVar(&mergeIdentifier, "identifier", "", "Identifier for the merge source")
	mergeCmd.Flags().BoolVar(&mergeIsolate, "isolate", false, "Namespace merged criteria under the identifier")
	_ = mergeCmd.MarkFlagRequired("file")
	_ = mergeCmd.MarkFlagRequired("identifier")
}

func runMerge(cmd *cobra.Command, args []string) error {
	if err := config.Merge(mergeAudits, mergeFile, mergeIdentifier, mergeIsolate); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "merged audits from %s\n", mergeIdentifier)
	return nil
}
