package main

import (
	"errors"
	"fmt"
	"strings"

	"aquasmart/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return errors.New("--email is required")
		}
		password := loginPassword
		if password == "" {
			p, err := promptPassword()
			if err != nil {
				return err
			}
			password = p
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Sessions.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return errors.New(api.Detail(err))
		}
		fmt.Println(successStyle.Render("✓ Logged in as " + user.DisplayName()))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Sessions.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		user, err := a.Sessions.Require()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> (id %d)\n", user.DisplayName(), user.Email, user.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when empty)")
}

// passwordPrompt is a one-field bubbletea program reading a hidden value.
type passwordPrompt struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPasswordPrompt() passwordPrompt {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()
	return passwordPrompt{input: ti}
}

func (m passwordPrompt) Init() tea.Cmd { return textinput.Blink }

func (m passwordPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordPrompt) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return promptStyle.Render("Enter your password:") + "\n" + m.input.View() + "\n"
}

func promptPassword() (string, error) {
	out, err := tea.NewProgram(newPasswordPrompt()).Run()
	if err != nil {
		return "", err
	}
	m := out.(passwordPrompt)
	if m.cancelled || strings.TrimSpace(m.input.Value()) == "" {
		return "", errors.New("no password given")
	}
	return m.input.Value(), nil
}
