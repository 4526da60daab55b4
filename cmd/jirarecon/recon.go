package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jirarecon/pkg/atlassian"
	"jirarecon/pkg/collector"
	"jirarecon/pkg/config"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/recon"
	"jirarecon/pkg/report"
	"jirarecon/pkg/storage"
	"jirarecon/pkg/ui"
)

var modeOptions = []string{
	"Filters only",
	"Dashboards only",
	"Both",
}

// session is everything an interactive run reads from or writes to
type session struct {
	cfg *config.Config
	in  io.Reader
	out io.Writer
	// progress receives spinner output, normally stderr
	progress io.Writer
	animate  bool
	width    int
	log      logger.Logger
}

func runRecon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintLogo()

	s := session{
		cfg:      cfg,
		in:       os.Stdin,
		out:      cmd.OutOrStdout(),
		progress: os.Stderr,
		animate:  cfg.UI.Spinner && ui.IsTerminal(os.Stderr),
		width:    ui.TerminalWidth(os.Stdout, report.DefaultWidth),
		log:      logger.GetLogger(),
	}
	return s.run(ctx)
}

func (s session) run(ctx context.Context) error {
	prompter := ui.NewPrompter(s.in, s.out)

	company, err := ui.AskUntil(ctx, prompter, "Enter the company subdomain (<company>.atlassian.net): ", parseCompany)
	if err != nil {
		return promptError(err)
	}

	prompter.Choice("What should be enumerated?", modeOptions)
	mode, err := ui.AskUntil(ctx, prompter, "Choice [3]: ", recon.ParseMode)
	if err != nil {
		return promptError(err)
	}

	store, err := storage.NewManager(s.cfg.Output.BaseDirectory)
	if err != nil {
		return err
	}

	client := atlassian.NewClient(s.cfg.Fetch.RequestTimeout, s.log)
	if s.cfg.Atlassian.UserAgent != "" {
		client.SetHeaders(map[string]string{"User-Agent": s.cfg.Atlassian.UserAgent})
	}

	users := collector.New()
	r := recon.New(s.cfg, company, client, store, users, s.log)

	spinner := ui.NewSpinner(s.progress, s.animate)
	r.SetProgress(spinner)

	fmt.Fprintln(s.out)
	spinner.Start()
	reports, err := r.Run(ctx, mode)
	spinner.Stop()
	if err != nil {
		return errInterrupted
	}

	fmt.Fprintln(s.out)
	report.RenderUsers(s.out, users.Users(), s.width)
	fmt.Fprintln(s.out)
	report.RenderSummary(s.out, reports, users.Len())
	fmt.Fprintf(s.out, "Files written: %d\n", store.SavedCount())
	fmt.Fprintln(s.out)
	report.RenderStats(s.out, report.CollectStats(store, company, s.log))
	return nil
}

// parseCompany accepts a bare subdomain or a site URL
func parseCompany(input string) (string, error) {
	company := atlassian.SanitizeSubdomain(input)
	if !atlassian.IsValidSubdomain(company) {
		return "", fmt.Errorf("invalid subdomain %q: use letters, digits and dashes only", input)
	}
	return company, nil
}

// promptError maps a cancelled or closed prompt to an interrupted run
func promptError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return errInterrupted
	}
	return err
}
