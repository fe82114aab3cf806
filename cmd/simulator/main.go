package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	apiURL   string
	user     string
	password string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "simulator",
		Short: "Development tool that builds meets and seeds heats through the API",
		Long: `Builds a competition from a YAML scenario, registers athletes and runs
auto-assign for every configured round.

Writes need an ORGANIZER account. Pass --user/--password for an existing one,
or run the server with MEET_DEFAULT_USER_ROLE=ORGANIZER and a fresh user is
registered.`,
		SilenceUsage: true,
	}

	defaultURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		defaultURL = envURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", defaultURL, "backend base URL")
	root.PersistentFlags().StringVar(&opts.user, "user", "", "organizer display name")
	root.PersistentFlags().StringVar(&opts.password, "password", "", "organizer password")

	root.AddCommand(newRunCmd(opts), newMethodsCmd())
	return root
}

func (o *options) client(cmd *cobra.Command) (*APIClient, error) {
	client := NewAPIClient(o.apiURL)

	if o.user != "" {
		user, err := client.Login(o.user, o.password)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.DisplayName, user.Role)
		return client, nil
	}

	name := fmt.Sprintf("simulator_%d", rand.IntN(1_000_000))
	user, err := client.Register(name, "simulator123")
	if err != nil {
		return nil, err
	}
	if user.Role != string(domain.UserRoleOrganizer) && user.Role != string(domain.UserRoleAdmin) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s registered as %s, writes will be rejected\n", user.DisplayName, user.Role)
	}
	return client, nil
}

func newRunCmd(opts *options) *cobra.Command {
	var (
		scenarioPath string
		xlsxDir      string
		seed         uint64
		count        int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the meet described by a scenario file",
		Example: `  simulator run --scenario scenarios/indoor.yaml
  simulator run --scenario meet.yaml --xlsx ./out --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(scenarioPath)
			if err != nil {
				return err
			}

			client, err := opts.client(cmd)
			if err != nil {
				return err
			}

			if count > 0 {
				for i := range scenario.Events {
					scenario.Events[i].Generate = count
				}
			}

			if seed == 0 {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			return runScenario(cmd, client, scenario, rng, xlsxDir)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario YAML file")
	cmd.Flags().StringVar(&xlsxDir, "xlsx", "", "directory to save start lists into")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for generated athletes (0 picks one)")
	cmd.Flags().IntVar(&count, "count", 0, "generated athletes per event, overriding the scenario")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func runScenario(cmd *cobra.Command, client *APIClient, s *Scenario, rng *rand.Rand, xlsxDir string) error {
	out := cmd.OutOrStdout()

	competition, err := client.CreateCompetition(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Competition %s (%s)\n", competition.Name, competition.ID)

	for _, spec := range s.Events {
		event, err := client.CreateEvent(competition.ID.String(), spec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n== %s, %d lanes ==\n", event.Name, event.LaneCount)

		roster := spec.Roster(rng)
		for _, a := range roster {
			athlete, err := client.CreateAthlete(a, spec.Gender)
			if err != nil {
				return err
			}
			if _, err := client.RegisterAthlete(event.ID.String(), athlete.ID.String(), a); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Registered %d athletes\n", len(roster))

		for _, step := range spec.Assign {
			result, err := client.Assign(event.ID.String(), step)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s: %d heats, %d athletes (%s / %s)\n",
				step.Round, result.HeatsCreated, result.ParticipantsAssigned, result.SeriesMethod, result.LaneMethod)
			printHeats(cmd, result.Heats)

			if xlsxDir != "" {
				if err := saveStartList(client, xlsxDir, event, step.Round); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func printHeats(cmd *cobra.Command, heats []*domain.Heat) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HEAT\tLANE\tBIB\tNAME\tSEED\tRANK")
	for _, h := range heats {
		lanes := append([]domain.HeatAssignment(nil), h.Assignments...)
		sort.Slice(lanes, func(i, j int) bool { return lanes[i].Lane < lanes[j].Lane })
		for _, a := range lanes {
			bib, name, seed := "", "", "-"
			if a.Registration != nil {
				bib = a.Registration.BibNumber
				if a.Registration.Athlete != nil {
					name = a.Registration.Athlete.FullName()
				}
			}
			if a.SeedTime != nil {
				seed = *a.SeedTime
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\n", h.HeatNumber, a.Lane, bib, name, seed, a.SeedRank)
		}
	}
	w.Flush()
}

func saveStartList(client *APIClient, dir string, event *domain.Event, round string) error {
	data, err := client.DownloadStartList(event.ID.String(), round)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.xlsx", event.ID.String()[:8], round))
	return os.WriteFile(path, data, 0o644)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List series and lane methods the server accepts",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Series methods (* = simple auto-assign):")
			for _, m := range domain.AllSeriesMethods {
				marker := " "
				if m.IsSimple() {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, m)
			}
			fmt.Fprintln(out, "\nLane methods:")
			for _, m := range domain.AllLaneMethods {
				fmt.Fprintf(out, "    %s\n", m)
			}
		},
	}
}
