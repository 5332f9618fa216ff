package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) whereCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "where",
		Short: "Show the current location",
		Long: "Show the saved city or, without one, ask for the location permission " +
			"and take a single position fix.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.stack.Resolver.Start(cmd.Context())
			return c.printLocation(cmd, st, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state as JSON")
	return cmd
}

func (c *cli) refreshCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ask for a new position fix, ignoring the saved location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.stack.Service.RefreshLocation(cmd.Context())
			return c.printLocation(cmd, st, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state as JSON")
	return cmd
}

func (c *cli) setCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-city NAME LAT LON",
		Short:   "Save a city as the current location",
		Example: "  skyscout set-city Paris 48.8566 2.3522",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[1])
			}
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[2])
			}

			st, err := c.stack.Service.SaveCity(cmd.Context(), model.SaveCityRequest{Name: args[0], Lat: &lat, Lon: &lon})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Saved "+formatState(st))
			return nil
		},
	}
}

func (c *cli) weatherCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show current conditions and the hourly forecast for the current location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st := c.stack.Resolver.Start(ctx)

			resp, err := c.stack.Service.GetWeather(ctx, nil, nil)
			if errors.Is(err, model.ErrLocationUnavailable) {
				fmt.Fprintln(c.out, formatState(st))
				fmt.Fprintln(c.out, "Pick a city with `skyscout search` or `skyscout set-city`.")
				return err
			}
			if err != nil {
				fmt.Fprintln(c.out, "⚠️  Unable to fetch weather data")
				return err
			}
			printWeather(c.out, resp, hours)
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 12, "Number of hourly rows to show, 0 for all")
	return cmd
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search cities interactively and save the one you pick",
		Long: "Every input line replaces the query; results arrive after a short pause.\n" +
			"Commands: :N selects candidate N, :r searches again, :c clears, :q quits.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := search.OptionsFromConfig(c.cfg.Search, c.logger)
			session := search.NewSession(c.stack.Geocoder, opts)
			defer session.Close()

			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}

			saved, err := runSearch(ctx, c.in, c.out, session, initial, func(cand model.CityCandidate) error {
				lat, lon := cand.Latitude, cand.Longitude
				_, err := c.stack.Service.SaveCity(ctx, model.SaveCityRequest{Name: cand.Name, Lat: &lat, Lon: &lon})
				return err
			}, isInteractive(c.in))
			if err != nil {
				return err
			}
			if saved != nil {
				c.logger.Debug("city selected", zap.String("label", saved.Label()))
			}
			return nil
		},
	}
}

func (c *cli) printLocation(cmd *cobra.Command, st model.LocationState, asJSON bool) error {
	if asJSON {
		data, err := model.MarshalLocationState(st)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, string(data))
		return nil
	}

	fmt.Fprintln(c.out, formatState(st))
	if coords, ok := st.(model.Coords); ok {
		// label the fix with the closest gazetteer city when one is loaded
		near, err := c.stack.Service.FindNearestCity(cmd.Context(), coords.Lat, coords.Lon)
		if err == nil && near != nil {
			fmt.Fprintf(c.out, "   near %s (%.1f km)\n", near.City.Label(), near.DistanceKm)
		}
	}
	if _, ok := st.(model.Denied); ok {
		fmt.Fprintln(c.out, "Pick a city with `skyscout search` or `skyscout set-city`.")
	}
	return nil
}
