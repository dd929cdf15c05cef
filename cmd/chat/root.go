package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Rrens/nutrisaas-chat/internal/app"
	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/conversation"
)

type options struct {
	audience string
	userID   string
	username string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run one NutriSaas chat session in the terminal",
		Long: `Runs a single guest, member or admin session against the configured
stores and NLP gateway. Options are picked by number; anything else is sent
as text. Type /quit to leave.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.audience, "audience", "a", string(conversation.AudienceGuest), "session audience: guest, member or admin")
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "user id (required for member and admin)")
	cmd.Flags().StringVar(&opts.username, "username", "", "display name stored with the profile")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	return cmd
}

func (o *options) identity() (*conversation.Identity, error) {
	if conversation.Audience(o.audience) == conversation.AudienceGuest {
		return nil, nil
	}
	if o.userID == "" {
		return nil, fmt.Errorf("--user is required for %s sessions", o.audience)
	}
	id, err := uuid.Parse(o.userID)
	if err != nil {
		return nil, fmt.Errorf("invalid --user: %w", err)
	}
	return &conversation.Identity{ID: id, Username: o.username}, nil
}

func run(ctx context.Context, opts *options, in io.Reader, out io.Writer) error {
	aud := conversation.Audience(opts.audience)
	if !aud.Valid() {
		return fmt.Errorf("unknown audience %q", opts.audience)
	}
	owner, err := opts.identity()
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if aud == conversation.AudienceAdmin {
		admin, err := application.Profiles.IsAdmin(ctx, owner.ID)
		if err != nil {
			return err
		}
		if !admin {
			return fmt.Errorf("user %s does not have the admin role", owner.ID)
		}
	}

	return converse(ctx, application.Chat, aud, owner, in, out)
}

type chatClient interface {
	Start(ctx context.Context, aud conversation.Audience, owner *conversation.Identity) (*conversation.View, error)
	Turn(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity, in conversation.Input) (*conversation.View, error)
	End(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity) error
}

// converse runs the read-eval loop. The session is ended on every exit path.
func converse(ctx context.Context, chat chatClient, aud conversation.Audience, owner *conversation.Identity, in io.Reader, out io.Writer) (err error) {
	view, err := chat.Start(ctx, aud, owner)
	if err != nil {
		return err
	}
	sessionID := view.SessionID
	defer func() {
		if endErr := chat.End(context.WithoutCancel(ctx), aud, sessionID, owner); endErr != nil {
			if err == nil {
				err = endErr
				return
			}
			log.Warn().Err(endErr).Str("session_id", sessionID.String()).Msg("Failed to end chat session")
		}
	}()
	shown := render(out, view, 0)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			break
		}

		view, err = chat.Turn(ctx, aud, sessionID, owner, parseInput(line, view.Expect))
		if err != nil {
			return err
		}
		shown = render(out, view, shown)
		if view.Redirect != "" {
			fmt.Fprintf(out, "→ %s\n", view.Redirect)
			break
		}
	}

	return nil
}

// parseInput maps a number onto the offered option; anything else is text
func parseInput(line string, expect conversation.Expectation) conversation.Input {
	if expect.Kind == conversation.InputChoice {
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(expect.Options) {
			return conversation.Input{Intent: expect.Options[n-1].Intent}
		}
	}
	return conversation.Input{Text: line}
}

// render prints bot turns after the first `from` transcript entries and
// returns the new transcript length.
func render(out io.Writer, view *conversation.View, from int) int {
	for _, turn := range view.Transcript[from:] {
		if turn.Speaker != conversation.SpeakerBot {
			continue
		}
		fmt.Fprintf(out, "🤖 %s\n", turn.Text)
		if turn.Link != nil {
			fmt.Fprintf(out, "   %s: %s\n", turn.Link.Label, turn.Link.URL)
		}
		for i, opt := range turn.Options {
			fmt.Fprintf(out, "   %d) %s\n", i+1, opt.Label)
		}
	}
	return len(view.Transcript)
}
