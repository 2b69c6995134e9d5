package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/inkwell/internal/api"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the blogging platform.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the platform",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func promptPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	email := prompt(reader, "Email: ")
	password := promptPassword("Password: ")

	fmt.Println("Logging in...")
	if err := app.Auth.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %s", app.Auth.AuthError())
	}

	user := app.Auth.CurrentUser()
	fmt.Printf("Logged in as %s.\n", user.DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if !app.Auth.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := app.Auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	params := api.RegisterParams{
		Username:  prompt(reader, "Username: "),
		Email:     prompt(reader, "Email: "),
		FirstName: prompt(reader, "First name: "),
		LastName:  prompt(reader, "Last name: "),
	}

	params.Password = promptPassword("Password: ")
	confirm := promptPassword("Confirm password: ")
	if params.Password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("Creating account...")
	if err := app.Auth.Register(cmd.Context(), params); err != nil {
		return fmt.Errorf("registration failed: %s", app.Auth.AuthError())
	}

	fmt.Println("Account created and logged in.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if err := app.requireAuth(); err != nil {
		return err
	}

	user := app.Auth.CurrentUser()
	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	fmt.Printf("Session valid until %s\n", app.Auth.SessionExpiry().Local().Format(time.RFC1123))
	return nil
}
