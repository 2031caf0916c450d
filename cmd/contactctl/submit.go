package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/landing/internal/config"
	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/ui"
)

// errFailed signals a submission that settled with an error notification.
var errFailed = errors.New("submission failed")

func newSubmitCmd() *cobra.Command {
	var (
		f        inputFlags
		endpoint string
		mode     string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and send a contact request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input(cmd)
			if err != nil {
				return err
			}

			// conf/landing.yaml supplies defaults when one is found.
			c := config.Contact{Mode: string(contact.ModeAcknowledged)}
			if cfg, err := config.Load(); err == nil {
				c = cfg.Contact
			} else {
				zap.S().Debugw("config not loaded, using flags only", "err", err)
			}
			if cmd.Flags().Changed("endpoint") {
				c.Endpoint = endpoint
			}
			if cmd.Flags().Changed("mode") {
				c.Mode = mode
			}
			if cmd.Flags().Changed("timeout") {
				c.Timeout = timeout
			}

			m, err := contact.ParseMode(c.Mode)
			if err != nil {
				return err
			}
			sub, err := contact.NewSubmitter(contact.Options{
				Mode:     m,
				Endpoint: c.Endpoint,
				Timeout:  c.Timeout,
				Delay:    c.SimulatedDelay,
			})
			if err != nil {
				return err
			}

			return runSubmit(cmd, in, sub, c.BusyLabel)
		},
	}
	f.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&endpoint, "endpoint", "", "submission URL (overrides contact.endpoint)")
	fl.StringVar(&mode, "mode", "", "simulated, opaque, or acknowledged (overrides contact.mode)")
	fl.DurationVar(&timeout, "timeout", 0, "request timeout (overrides contact.timeout)")
	return cmd
}

// runSubmit drives one attempt through the controller and maps the result
// to an error for the exit status.
func runSubmit(cmd *cobra.Command, in contact.FormInput, sub contact.Submitter, busyLabel string) error {
	out := ui.NewConsole(cmd.OutOrStdout(), "")
	form := ui.NewForm(in)

	ctl := contact.NewController(contact.Deps{
		Errors:    out,
		Notifier:  out,
		Fields:    form,
		Gate:      contact.NewGate(out, busyLabel),
		Submitter: sub,
		Log:       zap.S(),
	})

	att := ctl.Submit(cmd.Context(), form.Values())
	switch att.Status {
	case contact.Rejected:
		return errInvalid
	case contact.Dispatched:
		if o := att.Wait(); !o.Success() {
			return errFailed
		}
	}
	return nil
}
