package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sangamam/internal/core"
	"sangamam/internal/participant"
)

func newRootCmd(svc *core.Service) *cobra.Command {
	root := &cobra.Command{
		Use:           "sangamam",
		Short:         "SANGAMAM community walkathon event desk",
		Long:          "Registration, check-in and roster tooling for the SANGAMAM community walkathon.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSyncCmd(svc),
		newRegisterCmd(svc),
		newCheckInCmd(svc),
		newCheckOutCmd(svc),
		newRosterCmd(svc),
		newExportCmd(svc),
		newDonateCmd(svc),
	)
	return root
}

func newSyncCmd(svc *core.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the pre-registration list from the published sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d participants (%s)\n", len(res.Participants), res.Outcome)
			if res.SyncedAt != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Last successful sync: %s\n", res.SyncedAt)
			}
			return nil
		},
	}
}

func newRegisterCmd(svc *core.Service) *cobra.Command {
	var (
		reg           participant.Registration
		preRegistered bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a participant on site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.Register(cmd.Context(), reg, preRegistered)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registration completed for %s (id %s)\n",
				res.Participant.FullName(), res.Participant.ID)
			if res.Advisory != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Advisory)
			} else if res.EmailSent {
				fmt.Fprintln(cmd.OutOrStdout(), "A confirmation email is on its way.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.FirstName, "first", "", "first name (required)")
	cmd.Flags().StringVar(&reg.LastName, "last", "", "last name (required)")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&reg.EmergencyContact, "emergency-contact", "", "emergency contact name")
	cmd.Flags().StringVar(&reg.EmergencyPhone, "emergency-phone", "", "emergency contact phone")
	cmd.Flags().StringVar(&reg.AdditionalParty, "party", "", "additional party members")
	cmd.Flags().StringVar(&reg.Signature, "signature", "", "typed signature for the waiver")
	cmd.Flags().BoolVar(&reg.WaiverSigned, "agree-waiver", false, "confirm the liability waiver has been read and signed")
	cmd.Flags().BoolVar(&preRegistered, "pre-registered", false, "participant was already on the pre-registration sheet")

	return cmd
}

func newCheckInCmd(svc *core.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <participant-id>",
		Short: "Mark a participant as arrived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.CheckIn(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked in %s\n", args[0])
			return nil
		},
	}
}

func newCheckOutCmd(svc *core.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <participant-id>",
		Short: "Mark a participant as having completed the walk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.CheckOut(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked out %s\n", args[0])
			return nil
		},
	}
}

func newRosterCmd(svc *core.Service) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show the merged participant roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := svc.Roster(cmd.Context(), search)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tSOURCE\tSTATUS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.FullName(), e.Email, e.Phone, e.Source, e.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d participants\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by name, email or phone")
	return cmd
}

func newExportCmd(svc *core.Service) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset as JSON and CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshotPath, tablePath, err := svc.Export(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", snapshotPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", tablePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	return cmd
}

func newDonateCmd(svc *core.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "donate <amount>",
		Short: "Record interest in a donation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			msg, err := svc.Donate(amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
