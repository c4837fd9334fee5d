package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type forgotConfig struct {
	email       string
	otp         string
	newPassword string
}

// newForgotCmd drives the staged forgot-password chain end to end.
func newForgotCmd() *cobra.Command {
	cfg := &forgotConfig{}

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Run the forgot-password chain against the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runForgot(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (lower-case)")
	cmd.Flags().StringVar(&cfg.otp, "otp", "", "OTP code; prompted on stdin when omitted")
	cmd.Flags().StringVar(&cfg.newPassword, "new-password", "", "replacement password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("new-password")

	return cmd
}

func runForgot(cmd *cobra.Command, cfg *forgotConfig) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()

	if err := engine.ForgotPassword(ctx, cfg.email); err != nil {
		printSnapshot(cmd, engine)
		return err
	}
	cmd.Println("reset OTP dispatched")

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

	if err := engine.VerifyForgotPasswordOTP(ctx, otp); err != nil {
		printSnapshot(cmd, engine)
		return err
	}
	cmd.Println("reset OTP verified")

	if err := engine.ResetPassword(ctx, cfg.newPassword, cfg.newPassword); err != nil {
		printSnapshot(cmd, engine)
		return err
	}

	cmd.Println("password reset complete")
	printSnapshot(cmd, engine)
	return nil
}
