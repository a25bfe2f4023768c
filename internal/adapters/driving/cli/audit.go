package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Cross-check the vector store against the corpus",
	Long: `Recomputes the expected record count from the knowledge base using the
same filter as ingest, reads the collection's actual entry count and
prints a diagnosis of any difference. The most recent ingest run from
the local ledger is shown when available.

The audit never creates or modifies the collection.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	cmd.Println("--- MITRE Processing Audit ---")
	cmd.Printf("Reading source file: %s\n", appConfig.KnowledgeBase.Path)
	cmd.Printf("Checking collection %q at %s\n",
		appConfig.Chroma.Collection, appConfig.Chroma.BaseURL)

	report, err := auditService.Audit(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return fmt.Errorf("collection %q does not exist (run 'attackrag ingest' first)",
				appConfig.Chroma.Collection)
		}
		return fmt.Errorf("audit failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Total objects in bundle: %d\n", report.Total)
	cmd.Printf("Skipped (irrelevant type): %d\n", report.SkippedByType)
	cmd.Printf("Skipped (revoked/deprecated): %d\n", report.SkippedByLifecycle)
	cmd.Printf("Expected embeddings count: %d\n", report.Expected)
	cmd.Printf("Actual documents in collection: %d\n", report.Actual)

	if last := report.LastRun; last != nil {
		cmd.Println()
		cmd.Printf("Last ingest run: %s\n", last.FinishedAt.Format(time.RFC3339))
		cmd.Printf("  Indexed %d of %d eligible in %d batches\n",
			last.Indexed, last.Included, last.Batches)
		if len(last.FailedIDs) > 0 {
			cmd.Printf("  Failed embeddings: %s\n", strings.Join(last.FailedIDs, ", "))
		}
	}

	cmd.Println()
	switch diff := report.Diff(); {
	case diff == 0:
		cmd.Println(successStyle.Render("SUCCESS: Database count matches expected count exactly."))
	case diff > 0:
		cmd.Println(warnStyle.Render(
			fmt.Sprintf("MISSING: %d objects are missing from the database.", diff)))
		cmd.Println("Possible reasons:")
		cmd.Println("1. Embedding failures during ingest (check run output).")
		cmd.Println("2. The ingest run was interrupted.")
	default:
		cmd.Println(warnStyle.Render(
			fmt.Sprintf("EXTRA: Database has %d more items than expected.", -diff)))
		cmd.Println("Possible reasons:")
		cmd.Println("1. Duplicates (ingest adds a key suffix on ID collision).")
		cmd.Println("2. Old data was not cleared before the run.")
	}

	return nil
}
