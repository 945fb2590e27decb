package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/agent-swarm/backend/internal/analysis/intent"
	"github.com/zhouzirui/agent-swarm/backend/internal/config"
	"github.com/zhouzirui/agent-swarm/backend/internal/logging"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
)

type rootOptions struct {
	verbose bool
	seed    int64
	// newSwarm is replaced in tests.
	newSwarm func(cfg *config.Config) *swarm.Swarm
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		newSwarm: func(cfg *config.Config) *swarm.Swarm { return swarm.New(cfg) },
	}

	root := &cobra.Command{
		Use:           "swarmctl",
		Short:         "Talk to the agent swarm without starting the HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			logging.SetupWriter(cmd.ErrOrStderr(), level, true)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log agent activity to stderr")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "seed for reproducible synthetic data (0 keeps RANDOM_SEED or a random seed)")

	root.AddCommand(newAskCmd(opts), newClassifyCmd(), newAccountCmd(opts))
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.seed != 0 {
		seed := o.seed
		cfg.Swarm.Seed = &seed
	}
	return cfg, nil
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		userID      string
		personality string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Route a message and print the answer with its workflow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			s := opts.newSwarm(cfg)

			outcome, err := s.Handle(cmd.Context(), strings.Join(args, " "), userID, personality)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, outcome.Reply())
			}
			fmt.Fprintln(out, outcome.Response)
			fmt.Fprintln(out)
			for i, step := range outcome.Workflow {
				fmt.Fprintf(out, "%d. %s\n", i+1, step.AgentName)
				for _, call := range step.ToolCalls {
					fmt.Fprintf(out, "   - %s\n", call.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "cli-user", "user id to answer for")
	cmd.Flags().StringVarP(&personality, "personality", "p", "", "personality override (friendly, professional, casual)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the HTTP reply body instead of text")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Show which agent a message would be routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := intent.Classify(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "category: %s\n", decision.Category)
			fmt.Fprintf(out, "group:    %s\n", decision.Group)
			if decision.Pattern != "" {
				fmt.Fprintf(out, "pattern:  %s\n", decision.Pattern)
			}
			return nil
		},
	}
}

func newAccountCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "account <user_id>",
		Short: "Print the synthetic account generated for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			s := opts.newSwarm(cfg)
			return writeJSON(cmd.OutOrStdout(), s.Support.Account(args[0]))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
