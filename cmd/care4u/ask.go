// ABOUTME: CLI command for a one-shot message to the plant companion.
// ABOUTME: Sends through the configured responder and prints the finished reply.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/models"
)

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Say something to your companion",
	Long: `Send one message to your plant companion and print the reply.

The conversation is shared with the app, so the reply also shows up in the
Flora screen. The responder comes from the config: 'scripted' works offline,
'openai' talks to any OpenAI-compatible API using CARE4U_API_KEY.

EXAMPLES:

  care4u ask "I took my morning pills"
  care4u ask how are you feeling today`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))

		responder, err := cfg.NewResponder()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetTimeout())
		defer cancel()

		reply, err := st.SendMessage(ctx, responder, text)
		if err != nil {
			return fmt.Errorf("companion did not reply: %w", err)
		}
		printReply(st.Snapshot().SelectedPot, reply)
		return nil
	},
}

func printReply(pot models.Pot, reply models.Message) {
	glyph := models.EmotionGlyphs[reply.Emotion]
	if glyph == "" {
		glyph = pot.Emoji
	}
	name := pot.Name
	if name == "" {
		name = "Companion"
	}

	fmt.Printf("%s %s\n", glyph, color.New(color.Bold).Sprint(name))
	fmt.Println(reply.Content)
	if reply.MoodLabel != "" {
		fmt.Println(color.New(color.Faint).Sprintf("· feeling %s", reply.MoodLabel))
	}
}

func init() {
	rootCmd.AddCommand(askCmd)
}
