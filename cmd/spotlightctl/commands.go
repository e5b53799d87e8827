package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SatyaPujith/Spotlight/internal/classifier"
	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/location"
	"github.com/SatyaPujith/Spotlight/internal/models"
	"github.com/SatyaPujith/Spotlight/internal/services"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve LOCATION",
		Short: "Show which coverage rule a location text resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"rule":    location.RuleName(text),
				"details": location.Resolve(text),
			})
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify MESSAGE",
		Short: "Show whether a chat message starts on the direct or the tool path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"classification": classifier.Classify(message),
				"location":       location.DetectInMessage(message),
			})
		},
	}
}

func newSearchCmd(cfg *config.Config) *cobra.Command {
	var params yelp.SearchParams
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the business directory, falling back to generated listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := services.NewChatStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stack.Directory.Search(cmd.Context(), params))
		},
	}
	cmd.Flags().StringVarP(&params.Term, "term", "t", "", "What to look for, e.g. sushi")
	cmd.Flags().StringVarP(&params.Location, "location", "l", "", "Where to look (required)")
	cmd.Flags().StringVarP(&params.Price, "price", "p", "", "Price tier 1-4")
	cmd.Flags().StringVarP(&params.Categories, "categories", "c", "", "Category filter")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newChatCmd(cfg *config.Config) *cobra.Command {
	var history []string
	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Run one chat turn through the full pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := parseHistory(history)
			if err != nil {
				return err
			}

			stack, err := services.NewChatStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			result, err := stack.Chat.Respond(cmd.Context(), turns, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "path=%s request_id=%s\n", result.Path, result.RequestID)
			return writeJSON(cmd.OutOrStdout(), result.Response)
		},
	}
	cmd.Flags().StringArrayVar(&history, "history", nil, "Prior turn as role:text, repeatable")
	return cmd
}

// parseHistory reads role:text pairs
func parseHistory(raw []string) ([]models.ChatTurn, error) {
	turns := make([]models.ChatTurn, 0, len(raw))
	for _, h := range raw {
		role, text, ok := strings.Cut(h, ":")
		if !ok || text == "" {
			return nil, fmt.Errorf("history entry %q must be role:text", h)
		}
		turns = append(turns, models.ChatTurn{Role: strings.TrimSpace(role), Text: text})
	}
	return turns, nil
}
