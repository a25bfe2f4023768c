package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive assistant",
	Long: `Starts an interactive question-answering session over the indexed
corpus. Each question is answered with retrieval-augmented generation:
the nearest indexed documents are folded into the system instruction
and the model's reply streams to the terminal as it is generated.

Type 'exit' or 'quit' (or press Ctrl+C) to stop.

When stdin is not a terminal, questions are read line by line without
prompts, so the assistant can be scripted:

  echo "what is process injection?" | attackrag chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// searchStatus is the in-place status line shown while retrieving context.
const searchStatus = "Searching knowledge base..."

func runChat(cmd *cobra.Command, _ []string) error {
	if newSession == nil {
		return errors.New("chat session not configured")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Connecting to Vector Store...")
	if err := checkVectorStore(ctx); err != nil {
		return err
	}
	if _, err := vectorStore.GetCollection(ctx, appConfig.Chroma.Collection); err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return fmt.Errorf("collection %q does not exist (run 'attackrag ingest' first)",
				appConfig.Chroma.Collection)
		}
		return fmt.Errorf("connect to vector store: %w", err)
	}
	fmt.Fprintf(out, "Connected to collection: %s\n", appConfig.Chroma.Collection)

	if err := checkEmbedder(ctx); err != nil {
		return err
	}
	if err := checkChatModel(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "AI-SOC Assistant (%s) ready.\n", chatModel.ModelName())
	fmt.Fprintln(out, "Type 'exit' or 'quit' to stop.")
	fmt.Fprintln(out)

	session := newSession()
	interactive := isTerminal(cmd.InOrStdin())

	// Input arrives over a channel so the loop can also observe
	// interrupt-driven context cancellation while blocked on a read.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if interactive {
			fmt.Fprint(out, userStyle.Render("User:")+" ")
		}

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			session.Terminate()
			return nil
		case line, ok := <-lines:
			if !ok {
				if interactive {
					fmt.Fprintln(out)
				}
				session.Terminate()
				return nil
			}
			input = line
		}

		askOnce(ctx, out, session, input, interactive)

		if session.State() == domain.StateTerminated {
			return nil
		}
	}
}

// askOnce runs one conversation turn, streaming the reply as it arrives.
// Per-turn failures are reported and swallowed; the session continues.
func askOnce(
	ctx context.Context,
	out io.Writer,
	session driving.AssistantSession,
	input string,
	interactive bool,
) {
	if interactive {
		fmt.Fprint(out, mutedStyle.Render(searchStatus), "\r")
	}

	prefixShown := false
	onDelta := func(delta string) {
		if !prefixShown {
			if interactive {
				clearLine(out, len(searchStatus))
				fmt.Fprint(out, assistantStyle.Render("Assistant:")+" ")
			}
			prefixShown = true
		}
		fmt.Fprint(out, delta)
	}

	_, err := session.HandleInput(ctx, input, onDelta)
	if err != nil {
		if prefixShown {
			fmt.Fprintln(out)
		} else if interactive {
			clearLine(out, len(searchStatus))
		}
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return
	}

	if prefixShown {
		fmt.Fprintln(out)
		if interactive {
			fmt.Fprintln(out)
		}
	} else if interactive {
		// Blank input or exit command: the status line is still pending.
		clearLine(out, len(searchStatus))
	}
}

// clearLine erases an in-place status line of the given width.
func clearLine(out io.Writer, width int) {
	fmt.Fprint(out, "\r", strings.Repeat(" ", width), "\r")
}

// isTerminal reports whether r is an interactive terminal. Test buffers
// and pipes both fail the file assertion, which selects the scripted path.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
