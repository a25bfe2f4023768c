package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the ATT&CK corpus into the vector store",
	Long: `Loads the MITRE ATT&CK STIX bundle, filters eligible objects, embeds
each synthesized document and upserts the results into the Chroma
collection in batches.

Re-running is idempotent: entries are upserted by key, so an unchanged
corpus converges to the same collection state. Records whose embedding
call fails are skipped, reported and counted; the next run picks them
up again.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	if err := checkVectorStore(ctx); err != nil {
		return err
	}
	if err := checkEmbedder(ctx); err != nil {
		return err
	}

	cmd.Printf("Loading data from %s...\n", appConfig.KnowledgeBase.Path)

	run, err := ingestService.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	elapsed := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
	cmd.Printf("\nIngest complete in %s:\n", elapsed)
	cmd.Printf("  Objects in bundle:  %d\n", run.Total)
	cmd.Printf("  Eligible:           %d (skipped %d by type, %d by lifecycle)\n",
		run.Included, run.SkippedByType, run.SkippedByLifecycle)
	cmd.Printf("  Indexed:            %d in %d batches\n", run.Indexed, run.Batches)
	if len(run.FailedIDs) > 0 {
		cmd.Println(warnStyle.Render(fmt.Sprintf("  Embedding failures: %d (%s)",
			len(run.FailedIDs), strings.Join(run.FailedIDs, ", "))))
	}
	cmd.Println("Done!")

	return nil
}
