package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch-server/internal/dto"
	domainerrors "github.com/cinematch/cinematch-server/internal/errors"
	"github.com/cinematch/cinematch-server/internal/service"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "recommend [flags] <title>",
		Short: "Recommend movies for a title",
		Long: `recommend looks up the closest matching title, prints up to eight
matches and related movies, and appends two picks from the genre your recent
searches have in common.

Configuration flags and environment variables are shared with the API server.
A title that starts with "history" must follow "--".

Example usage:
  recommend the matrix
  recommend -history-backend sqlite spirited away
  recommend history -limit 5
  recommend -- history of violence`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Flags are parsed by the configuration loader.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newHistoryCmd())

	return root
}

func runRecommend(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Name(), args, cmd.ErrOrStderr(), nil)
	if errors.Is(err, errUsage) {
		return nil
	}
	if err != nil {
		return err
	}
	defer sess.close()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recommender := do.MustInvoke[*service.RecommendationService](sess.injector)
	enricher := do.MustInvoke[*dto.Enricher](sess.injector)

	out := cmd.OutOrStdout()
	printStatus(out, "Fetching data...")

	list, err := recommender.Recommend(ctx, strings.Join(sess.args, " "))
	if err != nil {
		return errors.New(domainerrors.UserMessage(err))
	}

	render(out, enricher.EnrichRecommendations(ctx, list))
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
