package main

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	arenauth "github.com/gambitworks/arenauth"
)

type loginConfig struct {
	email    string
	password string
	otp      string
	logout   bool
}

// newLoginCmd drives the full login chain: credentials, OTP, and optionally
// a symmetric logout at the end.
func newLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the login + OTP chain against the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (lower-case)")
	cmd.Flags().StringVar(&cfg.password, "password", "", "account password")
	cmd.Flags().StringVar(&cfg.otp, "otp", "", "OTP code; prompted on stdin when omitted")
	cmd.Flags().BoolVar(&cfg.logout, "logout", false, "log out again after a successful verification")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(cmd *cobra.Command, cfg *loginConfig) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()

	err = engine.Login(ctx, cfg.email, cfg.password)
	switch {
	case errors.Is(err, arenauth.ErrRestoreRequired):
		cmd.Println("login reported a soft-deleted account:")
		printSnapshot(cmd, engine)
		return nil
	case err != nil:
		printSnapshot(cmd, engine)
		return err
	}

	cmd.Println("OTP dispatched")
	printSnapshot(cmd, engine)

	otp := cfg.otp
	if otp == "" {
		cmd.Print("enter OTP: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		otp = strings.TrimSpace(line)
	}

	if err := engine.VerifyLoginOTP(ctx, cfg.email, otp); err != nil {
		printSnapshot(cmd, engine)
		return err
	}

	cmd.Println("login verified")
	printSnapshot(cmd, engine)

	if cfg.logout {
		engine.Logout(ctx)
		cmd.Println("logged out")
		printSnapshot(cmd, engine)
	}
	return nil
}
