package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/ui"
)

func newValidateCmd() *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a contact request without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input(cmd)
			if err != nil {
				return err
			}

			out := ui.NewConsole(cmd.OutOrStdout(), "")
			res := contact.Validate(in)
			for _, field := range res.Invalid() {
				out.ShowFieldError(field, res[field].Message)
			}
			if !res.Valid() {
				return errInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
