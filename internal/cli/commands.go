package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the auctionctl command tree.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. The root command runs the full workflow.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootListing := &listingFlags{}

	root := &cobra.Command{
		Use:           "auctionctl",
		Short:         "Create a listing on the auction contract and print all listings",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkflow(cmd, opts, rootListing)
		},
	}

	persistent := root.PersistentFlags()
	persistent.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	persistent.StringVarP(&opts.output, "output", "o", "text", "listings output format: text, json or yaml")
	persistent.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")
	rootListing.register(root)

	root.AddCommand(
		newRunCommand(opts),
		newCreateCommand(opts),
		newListCommand(opts),
	)
	return root
}

func newRunCommand(opts *options) *cobra.Command {
	listing := &listingFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit one listing, wait for confirmation, then print all listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkflow(cmd, opts, listing)
		},
	}
	listing.register(cmd)
	return cmd
}

func newCreateCommand(opts *options) *cobra.Command {
	listing := &listingFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit one listing and wait for confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := listing.request()
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.Close()

			listing.defaultBeneficiary(&req, s.key.Address)
			_, err = s.runner.Create(cmd.Context(), req)
			return err
		},
	}
	listing.register(cmd)
	return cmd
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all listings held by the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.runner.List(cmd.Context())
		},
	}
}

func runWorkflow(cmd *cobra.Command, opts *options, listing *listingFlags) error {
	req, err := listing.request()
	if err != nil {
		return err
	}
	s, err := openSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer s.Close()

	listing.defaultBeneficiary(&req, s.key.Address)
	return s.runner.Run(cmd.Context(), req)
}
