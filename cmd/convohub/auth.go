package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd(a **app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "log in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := (*a).anonClient().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := (*a).st.SetToken(creds.AccessToken); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", creds.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func signupCmd(a **app) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "create an account and log straight in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters long")
			}
			creds, err := (*a).anonClient().Signup(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			if err := (*a).st.SetToken(creds.AccessToken); err != nil {
				return err
			}
			fmt.Printf("welcome to ConvoHub, %s\n", creds.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if client, err := (*a).authedClient(); err == nil {
				// best effort; the local token goes away regardless
				if err := client.Logout(cmd.Context()); err != nil {
					(*a).log.WithError(err).Warn("server-side logout failed")
				}
			}
			if err := (*a).st.ClearToken(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func profileCmd(a **app) *cobra.Command {
	var bio string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bio") {
				p, err := client.UpdateProfile(cmd.Context(), bio)
				if err != nil {
					return err
				}
				fmt.Printf("bio updated for %s\n", p.Username)
				return nil
			}
			p, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", p.Username, p.Email)
			if p.Bio != "" {
				fmt.Println(p.Bio)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bio, "bio", "", "replace your bio")
	return cmd
}
