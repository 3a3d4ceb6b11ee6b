package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shashiranjanraj/bazario/app/store"
	"github.com/shashiranjanraj/bazario/pkg/notify"
	"github.com/shashiranjanraj/bazario/pkg/validate"
)

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, verifyOTPCmd, resendOTPCmd, logoutCmd, whoamiCmd)
}

// promptPassword reads a password without echoing when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		return string(raw), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), err
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		if err := validate.Required("username", username); err != nil {
			return err
		}

		password, err := promptPassword("password")
		if err != nil {
			return err
		}

		res, err := app.client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		app.sessions.SetAuth(store.Session{
			Username: res.Username,
			Email:    res.Email,
			Role:     res.Role,
			Token:    res.AccessToken,
		})
		app.watchdog.Watch(res.AccessToken)

		notify.Successf("logged in as %s", res.Username)

		// Pull the server cart now that a session exists.
		app.reconciler.Refresh(cmd.Context())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account; a verification code is emailed to you",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email := args[0], args[1]
		if err := validate.Required("username", username); err != nil {
			return err
		}
		if err := validate.Email(email); err != nil {
			return err
		}

		password, err := promptPassword("password")
		if err != nil {
			return err
		}
		if err := validate.MinLen("password", password, 8); err != nil {
			return err
		}

		if err := app.client.Register(cmd.Context(), username, email, password); err != nil {
			return err
		}
		notify.Successf("account created, check %s for the verification code", email)
		notify.Infof("then run: bazario verify-otp %s <code>", email)
		return nil
	},
}

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp <email> <code>",
	Short: "Verify the emailed code and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, code := args[0], args[1]
		if err := validate.Email(email); err != nil {
			return err
		}
		if err := validate.OTP(code); err != nil {
			return err
		}

		res, err := app.client.VerifyOTP(cmd.Context(), email, code)
		if err != nil {
			return err
		}

		app.sessions.SetAuth(store.Session{
			Username: res.Username,
			Email:    res.Email,
			Role:     res.Role,
			Token:    res.AccessToken,
		})
		app.watchdog.Watch(res.AccessToken)

		notify.Successf("verified, logged in as %s", res.Username)
		app.reconciler.Refresh(cmd.Context())
		return nil
	},
}

var resendOTPCmd = &cobra.Command{
	Use:   "resend-otp <email>",
	Short: "Send a fresh verification code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Email(args[0]); err != nil {
			return err
		}
		if err := app.client.ResendOTP(cmd.Context(), args[0]); err != nil {
			return err
		}
		notify.Successf("verification code sent to %s", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session on the backend and forget it locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !app.sessions.Authenticated() {
			notify.Infof("you are not logged in")
			return nil
		}
		if err := app.sessions.Logout(cmd.Context(), app.client); err != nil {
			return fmt.Errorf("logout failed, your session is kept: %w", err)
		}
		app.watchdog.Stop()
		notify.Successf("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !app.sessions.Authenticated() {
			fmt.Println("guest (not logged in)")
			return nil
		}
		s := app.sessions.Current()
		fmt.Printf("%s <%s> role=%s\n", s.Username, s.Email, s.Role)
		return nil
	},
}
