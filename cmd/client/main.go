package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"dm-lab/client"
	"dm-lab/domain"
	"dm-lab/web"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
	exitUsage   = 3
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=http://localhost:8080"`
	SessionFile   string `env:"CHAT_SESSION_FILE,default=.dm-session.json"`
	LogLevel      string `env:"LOG_LEVEL,default=info"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Restore the cached session. Expired tokens are cleared here.
	sessions := client.NewSessionStore(log, config.SessionFile)
	state := sessions.Load()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return exitUsage, nil
	}

	api := &apiClient{
		base:  config.ServerAddress,
		http:  &http.Client{Timeout: 10 * time.Second},
		token: sessions.Token(),
	}

	switch args[0] {
	case "register":
		if len(args) != 5 {
			usage()
			return exitUsage, nil
		}
		var user web.UserResponse
		err := api.post("/register", web.RegisterRequest{
			Username:        args[1],
			Email:           args[2],
			Password:        args[3],
			ConfirmPassword: args[4],
		}, &user)
		if err != nil {
			return exitRuntime, err
		}
		color.Green.Printf("Registered %s\n", user.Username)

	case "login":
		if len(args) != 3 {
			usage()
			return exitUsage, nil
		}
		var resp web.LoginResponse
		err := api.post("/login", web.LoginRequest{Username: args[1], Password: args[2]}, &resp)
		if err != nil {
			return exitRuntime, err
		}
		state = sessions.Reduce(state, client.Action{
			Type:  client.ActionLogin,
			Token: resp.Token,
			User:  &domain.Identity{Username: resp.Username, Email: resp.Email},
		})
		color.Green.Printf("Logged in as %s\n", state.User.Username)

	case "logout":
		sessions.Reduce(state, client.Action{Type: client.ActionLogout})
		fmt.Println("Logged out")

	case "whoami":
		if state.User == nil {
			fmt.Println("Not logged in")
			return exitOK, nil
		}
		fmt.Printf("%s <%s>\n", state.User.Username, state.User.Email)

	case "send":
		if len(args) < 3 {
			usage()
			return exitUsage, nil
		}
		var message web.MessageResponse
		err := api.post("/messages", web.SendMessageRequest{
			To:      args[1],
			Content: strings.Join(args[2:], " "),
		}, &message)
		if err != nil {
			return exitRuntime, err
		}
		color.Green.Printf("Sent to %s\n", message.To)

	case "list":
		var conversations []web.ConversationResponse
		if err := api.get("/users", &conversations); err != nil {
			return exitRuntime, err
		}
		renderConversations(conversations)

	default:
		usage()
		return exitUsage, nil
	}

	return exitOK, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  client register <username> <email> <password> <confirm-password>
  client login <username> <password>
  client logout
  client whoami
  client send <to> <content...>
  client list`)
}

func renderConversations(conversations []web.ConversationResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Email", "Last message", "When"})
	for _, c := range conversations {
		content, when := "-", "-"
		if c.LatestMessage != nil {
			content = color.Cyan.Sprint(c.LatestMessage.Content)
			when = c.LatestMessage.CreatedAt
		}
		table.Append([]string{c.Username, c.Email, content, when})
	}
	table.Render()
}

// apiClient is a thin JSON wrapper around the HTTP API. The session token,
// when present, rides along as a Bearer header.
type apiClient struct {
	base  string
	http  *http.Client
	token string
}

func (c *apiClient) post(path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *apiClient) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server replied %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
