package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/logger"
)

// inputFlags are shared by validate and submit.  Flags win over --file.
type inputFlags struct {
	file    string
	name    string
	email   string
	phone   string
	message string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "YAML file with name, email, phone, and message")
	fl.StringVar(&f.name, "name", "", "full name")
	fl.StringVar(&f.email, "email", "", "email address")
	fl.StringVar(&f.phone, "phone", "", "phone number (non-digits are stripped)")
	fl.StringVar(&f.message, "message", "", "message body")
}

// input assembles the FormInput from --file and the field flags.
func (f *inputFlags) input(cmd *cobra.Command) (contact.FormInput, error) {
	var in contact.FormInput
	if f.file != "" {
		raw, err := os.ReadFile(f.file)
		if err != nil {
			return in, err
		}
		if err := yaml.Unmarshal(raw, &in); err != nil {
			return in, fmt.Errorf("parse %s: %w", f.file, err)
		}
	}
	fl := cmd.Flags()
	if fl.Changed("name") {
		in.Name = f.name
	}
	if fl.Changed("email") {
		in.Email = f.email
	}
	if fl.Changed("phone") {
		in.Phone = f.phone
	}
	if fl.Changed("message") {
		in.Message = f.message
	}
	in.Phone = contact.NormalizePhone(in.Phone)
	return in, nil
}

// errInvalid signals failed validation after the field errors were printed.
var errInvalid = errors.New("input invalid")

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Validate and submit contact requests from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.NewConsole(cmd.ErrOrStderr(), debug)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	root.AddCommand(newValidateCmd(), newSubmitCmd())
	return root
}
