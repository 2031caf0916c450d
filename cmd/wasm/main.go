//go:build js && wasm

// cmd/wasm/main.go
//
// Browser entry point.  Built with GOOS=js GOARCH=wasm and loaded by the
// landing page.  The form element carries its own settings:
//
//	<form id="contact-form" data-endpoint="/api/contact" data-mode="acknowledged"
//	      data-timeout="15000" data-delay="1500" data-busy-label="Sending...">
//
// An empty data-mode falls back to the simulated submitter so a static copy
// of the page still behaves.  The toast reads data-duration from #toast.
package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/dom"
)

func main() {
	log := zap.NewExample().Sugar()

	form, ok := dom.NewForm()
	if !ok {
		log.Warnw("contact form not found on page")
		return
	}

	st, err := contact.SettingsFromData(form.Data)
	if err != nil {
		log.Errorw("contact settings", "error", err)
		st.Options.Mode = contact.ModeSimulated
	}
	sub, err := contact.NewSubmitter(st.Options)
	if err != nil {
		log.Errorw("contact submitter", "error", err)
		sub = &contact.SimulatedSubmitter{Delay: st.Options.Delay}
	}

	ctl := contact.NewController(contact.Deps{
		Errors:    dom.ErrorPresenter{},
		Notifier:  dom.NewToast(5 * time.Second), // data-duration on #toast wins
		Fields:    form,
		Gate:      contact.NewGate(dom.NewButton(), st.BusyLabel),
		Submitter: sub,
		Log:       log,
	})
	dom.Bind(form, ctl)
	log.Infow("contact form bound", "mode", st.Options.Mode)

	select {} // keep callbacks alive for the life of the page
}
