package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch-server/internal/dto"
	"github.com/cinematch/cinematch-server/internal/service"
)

const defaultHistoryLimit = 20

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "history [flags]",
		Short:              "Show recent searches, newest first",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE:               runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	var limit *int
	sess, err := openSession("history", args, cmd.ErrOrStderr(), func(fs *flag.FlagSet) {
		limit = fs.Int("limit", defaultHistoryLimit, "Number of searches to show, 0 shows all")
	})
	if errors.Is(err, errUsage) {
		return nil
	}
	if err != nil {
		return err
	}
	defer sess.close()

	if len(sess.args) > 0 {
		return fmt.Errorf("history takes no arguments, got %q; to search for that title run: recommend -- history %s",
			sess.args, strings.Join(sess.args, " "))
	}
	if *limit < 0 {
		return fmt.Errorf("limit cannot be negative, got %d", *limit)
	}

	ctx := cmdContext(cmd)
	history := do.MustInvoke[*service.HistoryService](sess.injector)
	enricher := do.MustInvoke[*dto.Enricher](sess.injector)

	records, err := history.Recent(ctx, *limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	renderHistory(cmd.OutOrStdout(), enricher.EnrichHistory(ctx, records))
	return nil
}
