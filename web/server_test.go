package web_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dm-lab/auth"
	"dm-lab/repositories"
	"dm-lab/services"
	"dm-lab/web"

	"github.com/dgraph-io/badger/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// badInputResponse mirrors the JSON shape of a field-scoped input error.
type badInputResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) *web.Server {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db, log)
	authService := services.NewAuthService(users, time.Hour)
	messageService := services.NewMessageService(users, messages)
	return web.NewServer(log, authService, messageService)
}

func do(t *testing.T, server *web.Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		request.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func register(t *testing.T, server *web.Server, username, email, password string) {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + email +
		`","password":"` + password + `","confirmPassword":"` + password + `"}`
	recorder := do(t, server, http.MethodPost, "/register", "", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
}

func login(t *testing.T, server *web.Server, username, password string) web.LoginResponse {
	t.Helper()
	recorder := do(t, server, http.MethodPost, "/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp web.LoginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	server := newTestServer(t)

	t.Run("should create a user and never expose the password hash", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/register", "",
			`{"username":"alice","email":"alice@example.com","password":"secret1","confirmPassword":"secret1"}`)

		req.Equal(http.StatusCreated, recorder.Code)

		var user web.UserResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &user))
		req.Equal("alice", user.Username)
		req.Equal("alice@example.com", user.Email)
		req.NotContains(recorder.Body.String(), "password")

		// The timestamp is formatted at this boundary.
		_, err := time.Parse(time.RFC3339, user.CreatedAt)
		req.NoError(err)
	})

	t.Run("should reject a duplicate username with a field error", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/register", "",
			`{"username":"alice","email":"other@example.com","password":"secret1","confirmPassword":"secret1"}`)

		req.Equal(http.StatusBadRequest, recorder.Code)

		var resp badInputResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Equal("Bad input", resp.Message)
		req.Equal("username is already taken", resp.Errors["username"])
	})

	t.Run("should reject mismatched passwords", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/register", "",
			`{"username":"bob","email":"bob@example.com","password":"secret1","confirmPassword":"secret2"}`)

		req.Equal(http.StatusBadRequest, recorder.Code)

		var resp badInputResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Contains(resp.Errors, "confirmPassword")
	})
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)
	register(t, server, "alice", "alice@example.com", "correctpass")

	t.Run("should reject a wrong password with a field error and no token", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/login", "",
			`{"username":"alice","password":"wrongpass"}`)

		req.Equal(http.StatusBadRequest, recorder.Code)

		var resp badInputResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Equal("Password is incorrect", resp.Errors["password"])
		req.NotContains(recorder.Body.String(), "token")
	})

	t.Run("should reject an unknown user with a field error", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/login", "",
			`{"username":"ghost","password":"whatever"}`)

		req.Equal(http.StatusBadRequest, recorder.Code)

		var resp badInputResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Equal("User not found", resp.Errors["username"])
	})

	t.Run("should return a token carrying the identity claims", func(t *testing.T) {
		req := require.New(t)
		resp := login(t, server, "alice", "correctpass")

		req.NotEmpty(resp.Token)
		claims, err := auth.ValidateToken(resp.Token)
		req.NoError(err)
		req.Equal("alice", claims.Username)
		req.Equal("alice@example.com", claims.Email)
		req.WithinDuration(time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})
}

func TestMessaging(t *testing.T) {
	server := newTestServer(t)
	register(t, server, "alice", "alice@example.com", "secret1")
	register(t, server, "bob", "bob@example.com", "secret1")
	register(t, server, "carol", "carol@example.com", "secret1")
	aliceToken := login(t, server, "alice", "secret1").Token

	t.Run("should reject sending without a session", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodPost, "/messages", "",
			`{"to":"bob","content":"hi"}`)
		req.Equal(http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject listing without a session", func(t *testing.T) {
		req := require.New(t)
		recorder := do(t, server, http.MethodGet, "/users", "", "")
		req.Equal(http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject empty content and self-sends", func(t *testing.T) {
		req := require.New(t)

		recorder := do(t, server, http.MethodPost, "/messages", aliceToken,
			`{"to":"bob","content":"  "}`)
		req.Equal(http.StatusBadRequest, recorder.Code)
		var resp badInputResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Equal("Message is empty", resp.Errors["content"])

		recorder = do(t, server, http.MethodPost, "/messages", aliceToken,
			`{"to":"alice","content":"hi me"}`)
		req.Equal(http.StatusBadRequest, recorder.Code)
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))
		req.Equal("Can't send a message to yourself", resp.Errors["to"])
	})

	t.Run("should send a message and list it as the latest conversation entry", func(t *testing.T) {
		req := require.New(t)

		recorder := do(t, server, http.MethodPost, "/messages", aliceToken,
			`{"to":"bob","content":"hello bob"}`)
		req.Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

		var message web.MessageResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &message))
		req.Equal("alice", message.From)
		req.Equal("bob", message.To)

		recorder = do(t, server, http.MethodGet, "/users", aliceToken, "")
		req.Equal(http.StatusOK, recorder.Code)

		var conversations []web.ConversationResponse
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &conversations))
		req.Len(conversations, 2)

		req.Equal("bob", conversations[0].Username)
		req.NotNil(conversations[0].LatestMessage)
		req.Equal("hello bob", conversations[0].LatestMessage.Content)

		// No messages exchanged with carol: nothing attached.
		req.Equal("carol", conversations[1].Username)
		req.Nil(conversations[1].LatestMessage)
	})
}
