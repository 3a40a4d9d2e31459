package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-briefing/pkg/intake"
	"github.com/goliatone/go-briefing/pkg/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the briefing in the terminal",
		Long: `Asks every briefing question in the terminal. Leaving the CNPJ prompt with
14 digits looks the company up and offers the registry data as defaults.
The finished message is opened in the browser unless --print is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opener intake.Opener = intake.BrowserOpener{}
			if printOnly {
				opener = intake.WriterOpener{W: cmd.OutOrStdout()}
			}
			session := intake.NewSession(
				intake.WithLooker(a.newLooker()),
				intake.WithComposer(a.newComposer()),
				intake.WithOpener(opener),
				intake.WithLogger(a.logger.Named("intake")),
			)
			runner, err := tui.New(session,
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout(), tui.DefaultTheme)),
				tui.WithLogger(a.logger.Named("tui")),
			)
			if err != nil {
				return err
			}

			link, err := runner.Run(cmd.Context())
			switch {
			case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrDeclined):
				fmt.Fprintln(cmd.ErrOrStderr(), "Briefing não enviado.")
				return nil
			case err != nil && link != "":
				// The browser could not be started; the link is still usable.
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return err
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the link instead of opening it")
	return cmd
}
