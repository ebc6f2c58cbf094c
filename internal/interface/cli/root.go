package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/interface/render"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"

	"github.com/spf13/cobra"
)

// App is what the commands run against
type App struct {
	Flights  *usecase.FlightSearchService
	Airports *usecase.AirportService
	Logger   logger.Logger
}

// SetupFunc builds the App once flags are parsed. The returned func releases it.
type SetupFunc func(debug bool) (*App, func(), error)

// NewRootCmd creates the flightsearch command tree
func NewRootCmd(setup SetupFunc) *cobra.Command {
	var (
		debugFlag bool
		app       *App
		teardown  func()
	)

	rootCmd := &cobra.Command{
		Use:           "flightsearch",
		Short:         "Search flight offers and airports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, teardown, err = setup(debugFlag)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if teardown != nil {
				teardown()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "v", false, "Enable debug logs")

	rootCmd.AddCommand(newSearchCmd(func() *App { return app }))
	rootCmd.AddCommand(newAirportsCmd(func() *App { return app }))
	return rootCmd
}

type searchOptions struct {
	params  entity.SearchParams
	sort    string
	format  string
	wait    time.Duration
	details int
}

func newSearchCmd(app func() *App) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flight offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), app(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.params.Origin, "from", "f", "", "Origin airport or city code")
	flags.StringVarP(&opts.params.Destination, "to", "t", "", "Destination airport or city code")
	flags.StringVarP(&opts.params.DepartureDate, "date", "d", "", "Departure date (YYYY-MM-DD)")
	flags.StringVar(&opts.params.ReturnDate, "return", "", "Return date (YYYY-MM-DD)")
	flags.IntVarP(&opts.params.Adults, "adults", "a", 1, "Number of adults")
	flags.StringVarP(&opts.params.Currency, "currency", "c", "", "Currency code")
	flags.BoolVar(&opts.params.NonStop, "nonstop", false, "Only nonstop flights")
	flags.StringVar(&opts.params.TravelClass, "cabin", "", "ECONOMY, PREMIUM_ECONOMY, BUSINESS or FIRST")
	flags.IntVar(&opts.params.Max, "max", 0, "Maximum number of offers")
	flags.StringVarP(&opts.sort, "sort", "s", "none", "Sort by none, price or duration")
	flags.StringVar(&opts.format, "format", "table", "Output format: table or csv")
	flags.DurationVar(&opts.wait, "wait", 10*time.Second, "How long to wait for airline names")
	flags.IntVar(&opts.details, "offer", 0, "Show the details of offer # n")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("date")

	return cmd
}

func runSearch(ctx context.Context, app *App, opts *searchOptions, out io.Writer) error {
	criterion, err := usecase.ParseSortCriterion(opts.sort)
	if err != nil {
		return err
	}
	if opts.format != "table" && opts.format != "csv" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	session, err := app.Flights.Search(ctx, opts.params)
	if err != nil {
		return userError(err)
	}
	defer app.Flights.Discard(session.ID)

	waitCtx, cancel := context.WithTimeout(ctx, opts.wait)
	defer cancel()
	if err := session.Pipeline.WaitReady(waitCtx); err != nil {
		app.Logger.Warn("Airline names still resolving, showing codes", "error", err)
	}

	// --offer takes the number in the "#" column, which does not change with the sort
	if opts.details > 0 {
		offer, err := session.Pipeline.Offer(opts.details - 1)
		if err != nil {
			return fmt.Errorf("offer %d: %w", opts.details, err)
		}
		return render.WriteDetails(out, offer)
	}

	offers := session.Pipeline.View(criterion)

	if opts.format == "csv" {
		return render.WriteCSV(out, offers)
	}
	if len(offers) == 0 {
		_, err := fmt.Fprintln(out, "No flights found.")
		return err
	}
	return render.WriteTable(out, offers)
}

func newAirportsCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "airports <keyword>",
		Short: "Find airports and cities by name or code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := app().Airports.Search(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			return render.WriteLocations(cmd.OutOrStdout(), locations)
		},
	}
}

func userError(err error) error {
	var searchErr *usecase.SearchError
	if errors.As(err, &searchErr) {
		return fmt.Errorf("%s (%w)", searchErr.UserMessage(), searchErr.Err)
	}
	return err
}
