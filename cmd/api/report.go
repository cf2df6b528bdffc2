package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ewilliams-labs/stalify/internal/config"
	"github.com/ewilliams-labs/stalify/internal/core/analytics"
	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/services"
	"github.com/ewilliams-labs/stalify/internal/observability"
)

// keyAccessToken is read from --token or SPOTIFY_ACCESS_TOKEN.
const keyAccessToken = "spotify_access_token"

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// reportFunc produces a report and its table rendering.
type reportFunc func(ctx context.Context, insights *services.Insights, token string) (any, [][]string, error)

func (a *app) newReportCmd() *cobra.Command {
	var format, window string
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a listening report for the owner of an access token",
	}
	flags := cmd.PersistentFlags()
	flags.String("token", "", "Spotify access token (default $SPOTIFY_ACCESS_TOKEN)")
	flags.StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	a.bind(flags, map[string]string{"token": keyAccessToken})

	patterns := &cobra.Command{
		Use:   "patterns",
		Short: "When and how repetitively you listen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, format, func(ctx context.Context, insights *services.Insights, token string) (any, [][]string, error) {
				report, err := insights.ListeningPatterns(ctx, token, limit, nil)
				if err != nil {
					return nil, nil, err
				}
				return report, patternRows(report), nil
			})
		},
	}
	patterns.Flags().IntVarP(&limit, "limit", "n", services.MaxLimit, "number of recent plays to analyse")

	personality := &cobra.Command{
		Use:   "personality",
		Short: "Classify your taste from top tracks and artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := domain.ParseTimeRange(window)
			if err != nil {
				return err
			}
			return a.runReport(cmd, format, func(ctx context.Context, insights *services.Insights, token string) (any, [][]string, error) {
				report, err := insights.MusicPersonality(ctx, token, tr)
				if err != nil {
					return nil, nil, err
				}
				return report, personalityRows(report), nil
			})
		},
	}

	audio := &cobra.Command{
		Use:   "audio",
		Short: "Average audio features of your top tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := domain.ParseTimeRange(window)
			if err != nil {
				return err
			}
			return a.runReport(cmd, format, func(ctx context.Context, insights *services.Insights, token string) (any, [][]string, error) {
				report := insights.AudioFeatureSummary(ctx, token, tr)
				return report, audioRows(report), nil
			})
		},
	}

	for _, sub := range []*cobra.Command{personality, audio} {
		sub.Flags().StringVarP(&window, "time-range", "r", string(domain.MediumTerm), "short_term, medium_term or long_term")
	}

	cmd.AddCommand(patterns, personality, audio)
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, format string, run reportFunc) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	token := a.v.GetString(keyAccessToken)
	if token == "" {
		return errors.New("an access token is required: pass --token or set SPOTIFY_ACCESS_TOKEN")
	}

	cfg := config.Load(a.v)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := newSpotifyClient(cfg, logger.With(zap.String("command", cmd.Name())), nil)
	insights := services.NewInsights(client, analytics.RandomPlaceholder{}, loc, logger)

	report, rows, err := run(cmd.Context(), insights, token)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), format, report, rows)
}

func writeReport(out io.Writer, format string, report any, rows [][]string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		return writeYAML(out, report)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// writeYAML re-encodes the JSON form of v so that keys keep their JSON names
// and order.
func writeYAML(out io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// estimated marks metrics that are not derived from real data.
func estimated(label, field string, placeholders []string) string {
	if slices.Contains(placeholders, field) {
		return label + " (estimated)"
	}
	return label
}

func patternRows(r domain.ListeningPatternReport) [][]string {
	rows := [][]string{
		{"Total plays", strconv.Itoa(r.TotalPlays)},
		{"Unique tracks", strconv.Itoa(r.UniqueTracks)},
		{"Repeat rate", percent(r.RepeatRate)},
		{"Discovery rate", percent(r.DiscoveryRate)},
		{"Listening time", fmt.Sprintf("%d min", r.TotalListeningTime)},
		{"Average track length", fmt.Sprintf("%d min", r.AverageSessionLength)},
		{"Most active", r.MostActiveTimeOfDay},
		{"Consistency", percent(r.ListeningConsistency)},
		{estimated("Skip rate", analytics.FieldSkipRate, r.PlaceholderFields), percent(r.SkipRate)},
		{estimated("Listening streak", analytics.FieldListeningStreak, r.PlaceholderFields), fmt.Sprintf("%d days", r.ListeningStreak)},
	}
	for i, h := range r.PeakHours {
		rows = append(rows, []string{fmt.Sprintf("Peak hour #%d", i+1), fmt.Sprintf("%02d:00 (%d plays)", h.Hour, h.Count)})
	}
	for i, d := range r.PeakDays {
		rows = append(rows, []string{fmt.Sprintf("Peak day #%d", i+1), fmt.Sprintf("%s (%d plays)", d.Day, d.Count)})
	}
	return rows
}

func personalityRows(r domain.PersonalityReport) [][]string {
	rows := [][]string{
		{"Type", r.Type},
		{"Traits", strings.Join(r.Traits, ", ")},
		{"Description", r.Description},
		{"Diversity", percent(r.Score.Diversity)},
		{"Mainstream", percent(r.Score.Mainstream)},
		{estimated("Energy", analytics.FieldEnergy, r.PlaceholderFields), percent(r.Score.Energy)},
		{estimated("Mood", analytics.FieldMood, r.PlaceholderFields), percent(r.Score.Mood)},
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"Try", rec})
	}
	return rows
}

func audioRows(r domain.AudioFeatureReport) [][]string {
	rows := [][]string{
		{"Tracks analysed", strconv.Itoa(r.TracksAnalyzed)},
		{"Danceability", percent(r.Average.Danceability)},
		{"Energy", percent(r.Average.Energy)},
		{"Valence", percent(r.Average.Valence)},
		{"Tempo", fmt.Sprintf("%d BPM", r.Average.Tempo)},
	}
	for _, insight := range r.Insights {
		rows = append(rows, []string{"Insight", insight})
	}
	return rows
}

func percent(n int) string {
	return strconv.Itoa(n) + "%"
}
