package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/weather-outfit/internal/bootstrap"
	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/domain/outfit"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	"github.com/yanqian/weather-outfit/pkg/logger"
)

const requestTimeout = 30 * time.Second

type deps struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &deps{cfg: cfg, logger: logger.NewTo(os.Stderr)}, nil
}

func (d *deps) forecasts() forecast.Service {
	up := bootstrap.UpstreamConfig(d.cfg)
	return forecast.NewService(
		bootstrap.ForecastConfig(d.cfg),
		bootstrap.NewWeatherClient(d.cfg, up, d.logger),
		bootstrap.NewAirQualityResolver(d.cfg, up, d.logger),
		d.logger,
	)
}

func (d *deps) locations() (location.Service, func(), error) {
	repo, cleanup, err := bootstrap.NewLocationRepository(d.cfg, d.logger)
	if err != nil {
		return nil, nil, err
	}
	geocoder := bootstrap.NewGeocoder(d.cfg, bootstrap.UpstreamConfig(d.cfg), d.logger)
	return location.NewService(bootstrap.LocationConfig(d.cfg), repo, geocoder, d.logger), cleanup, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "outfitctl",
		Short:         "Clothing recommendations from live weather",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newRecommendCmd(), newBandsCmd(), newLocationsCmd())
	return root
}

func newRecommendCmd() *cobra.Command {
	var (
		points []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print outfit cards for the given or saved locations",
		Example: "  outfitctl recommend --at Seoul:37.5665:126.978\n" +
			"  outfitctl recommend -o text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			locs, err := parseLocations(points)
			if err != nil {
				return err
			}
			if len(locs) == 0 {
				svc, cleanup, err := d.locations()
				if err != nil {
					return err
				}
				defer cleanup()
				if locs, err = svc.List(ctx); err != nil {
					return err
				}
			}
			result := d.forecasts().Aggregate(ctx, locs)
			return render(cmd.OutOrStdout(), output, result)
		},
	}
	cmd.Flags().StringArrayVar(&points, "at", nil, "location as name:lat:lon (repeat up to twice)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, text)")
	return cmd
}

func newBandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "List the temperature bands and their outfits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeBands(cmd.OutOrStdout(), outfit.Bands())
		},
	}
}

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage saved locations",
	}
	withService := func(run func(ctx context.Context, svc location.Service, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			svc, cleanup, err := d.locations()
			if err != nil {
				return err
			}
			defer cleanup()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			return run(ctx, svc, cmd, args)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show saved locations",
		RunE: withService(func(ctx context.Context, svc location.Service, cmd *cobra.Command, _ []string) error {
			locs, err := svc.List(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), locs)
		}),
	}
	add := &cobra.Command{
		Use:   "add [query]",
		Short: "Geocode a place name and save it",
		Args:  cobra.MinimumNArgs(1),
		RunE: withService(func(ctx context.Context, svc location.Service, cmd *cobra.Command, args []string) error {
			result, err := svc.AddByQuery(ctx, location.AddRequest{Query: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		}),
	}
	remove := &cobra.Command{
		Use:   "remove [id]",
		Short: "Delete a saved location",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(ctx context.Context, svc location.Service, cmd *cobra.Command, args []string) error {
			locs, err := svc.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), locs)
		}),
	}
	cmd.AddCommand(list, add, remove)
	return cmd
}

// parseLocations reads name:lat:lon triples. Ids are positional since nothing is persisted.
func parseLocations(raw []string) ([]location.Location, error) {
	if len(raw) > location.MaxLocations {
		return nil, fmt.Errorf("at most %d locations can be requested", location.MaxLocations)
	}
	out := make([]location.Location, 0, len(raw))
	for i, value := range raw {
		parts := strings.Split(value, ":")
		if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid location %q: want name:lat:lon", value)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("invalid latitude in %q", value)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("invalid longitude in %q", value)
		}
		out = append(out, location.Location{
			ID:        "cli-" + strconv.Itoa(i+1),
			Name:      strings.TrimSpace(parts[0]),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return out, nil
}

func render(w io.Writer, format string, result forecast.Result) error {
	switch format {
	case "json":
		return writeJSON(w, result)
	case "text":
		return writeText(w, result)
	default:
		return errors.New("output must be json or text")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, result forecast.Result) error {
	for _, card := range result.Cards {
		weather := card.Weather
		fmt.Fprintf(w, "%s (%s)\n", card.Name, weather.Source)
		fmt.Fprintf(w, "  %.1f°C  humidity %.0f%%  uv %.1f  rain %.0f%%\n",
			weather.TempC, weather.Humidity, weather.UVIndex, weather.PrecipitationProbability)
		writeRecommendation(w, "today", card.Recommendation)
		if card.TomorrowRecommendation != nil {
			writeRecommendation(w, "tomorrow", *card.TomorrowRecommendation)
		}
	}
	_, err := fmt.Fprintf(w, "%d card(s): %d live, %d fallback\n", result.Count, result.Stats.Live, result.Stats.Fallback)
	return err
}

func writeRecommendation(w io.Writer, label string, rec outfit.Recommendation) {
	fmt.Fprintf(w, "  %s: %s\n", label, rec.OutfitLabel)
	if len(rec.Items) > 0 && rec.Items[0].Note != nil {
		fmt.Fprintf(w, "    note: %s\n", *rec.Items[0].Note)
	}
	for _, acc := range rec.Accessories {
		fmt.Fprintf(w, "    + %s: %s\n", acc.Name, acc.Note)
	}
}

func writeBands(w io.Writer, bands []outfit.Band) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tMIN °C\tOUTFIT\tITEMS")
	for _, b := range bands {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\n", b.Key, b.MinThreshold, b.Label, strings.Join(b.BaseItems, ", "))
	}
	return tw.Flush()
}
