// Package main provides an interactive terminal client for the assistant.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/protocol"
)

// Client talks to one assistant session.
type Client struct {
	baseURL   string
	http      *http.Client
	conn      *websocket.Conn
	sessionID string
	done      chan struct{}

	mu   sync.Mutex
	last *domain.Message
}

// NewClient starts a session over HTTP and subscribes to it.
func NewClient(baseURL string, req map[string]string) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		done:    make(chan struct{}),
	}

	var resp struct {
		SessionID string           `json:"session_id"`
		Messages  []domain.Message `json:"messages"`
	}
	if err := c.call(http.MethodPost, "/v1/sessions", req, &resp); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = resp.SessionID

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/v1/sessions/" + c.sessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	c.conn = conn

	for i := range resp.Messages {
		c.show(resp.Messages[i])
	}
	return c, nil
}

// Close ends the session and closes the connection.
func (c *Client) Close() error {
	close(c.done)
	if err := c.call(http.MethodDelete, "/v1/sessions/"+c.sessionID, nil, nil); err != nil {
		log.Printf("End session: %v", err)
	}
	return c.conn.Close()
}

// Send sends one line of input.
func (c *Client) Send(text string) error {
	return c.conn.WriteJSON(protocol.ClientMessage{Type: protocol.TypeSend, Text: text})
}

// Clear asks the assistant to clear the history.
func (c *Client) Clear() error {
	return c.conn.WriteJSON(protocol.ClientMessage{Type: protocol.TypeClear})
}

// QuickReply replays the payload of the n-th quick reply of the last message.
func (c *Client) QuickReply(n int) error {
	c.mu.Lock()
	var qrs []domain.QuickReply
	if c.last != nil {
		qrs = c.last.QuickReplies()
	}
	c.mu.Unlock()

	if n < 1 || n > len(qrs) {
		return fmt.Errorf("no quick reply #%d", n)
	}
	return c.Send(qrs[n-1].Payload)
}

// Action runs the n-th action offered by the last message.
func (c *Client) Action(n int) error {
	c.mu.Lock()
	var actions []domain.Action
	if c.last != nil {
		actions = c.last.Actions()
	}
	c.mu.Unlock()

	if n < 1 || n > len(actions) {
		return fmt.Errorf("no action #%d", n)
	}
	var result domain.Result
	body := map[string]interface{}{"action": actions[n-1]}
	if err := c.call(http.MethodPost, "/v1/sessions/"+c.sessionID+"/actions", body, &result); err != nil {
		return err
	}
	if !result.Success {
		fmt.Printf("(action failed: %s)\n", result.Message)
	}
	return nil
}

// ReadEvents prints events pushed by the assistant.
func (c *Client) ReadEvents() {
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("Read error: %v", err)
				}
				return
			}
			c.handleEvent(data)
		}
	}
}

func (c *Client) handleEvent(data []byte) {
	var base protocol.BaseEvent
	if err := json.Unmarshal(data, &base); err != nil {
		log.Printf("Unmarshal error: %v", err)
		return
	}

	switch base.Type {
	case protocol.TypeMessage:
		var evt protocol.MessageEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			log.Printf("Unmarshal error: %v", err)
			return
		}
		if evt.Message.Sender == domain.SenderBot {
			c.show(evt.Message)
		}
	case protocol.TypeNavigate:
		var evt protocol.NavigateEvent
		json.Unmarshal(data, &evt)
		fmt.Printf("\n-> navigate to %s\n", evt.Route)
	case protocol.TypeOpenURL:
		var evt protocol.OpenURLEvent
		json.Unmarshal(data, &evt)
		fmt.Printf("\n-> download %s (%s)\n", evt.FileName, evt.URL)
	case protocol.TypeCleared:
		fmt.Println("\n(history cleared)")
	case protocol.TypeError:
		var evt protocol.ErrorEvent
		json.Unmarshal(data, &evt)
		fmt.Printf("\n(error: %s)\n", evt.Message)
	}
}

func (c *Client) show(m domain.Message) {
	if m.Sender != domain.SenderBot {
		return
	}
	c.mu.Lock()
	c.last = &m
	c.mu.Unlock()

	fmt.Printf("\nbot: %s\n", m.Content)
	if m.Metadata != nil {
		for _, d := range m.Metadata.Documents {
			fmt.Printf("  - %s (%s)\n", d.Name, d.URL)
		}
		for _, img := range m.Metadata.Images {
			fmt.Printf("  - [image] %s (%s)\n", img.Name, img.URL)
		}
	}
	for i, a := range m.Actions() {
		fmt.Printf("  /act %d  %s\n", i+1, a.Label)
	}
	for i, qr := range m.QuickReplies() {
		fmt.Printf("  /qr %d   %s\n", i+1, qr.Label)
	}
}

func (c *Client) call(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, errResp.Error)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Assistant server address")
	role := flag.String("role", "tenant", "Session role (tenant or landlord)")
	userID := flag.String("user", "7", "User ID")
	propertyID := flag.String("property", "", "Property ID")
	tenantID := flag.String("tenant", "", "Tenant ID")
	landlordID := flag.String("landlord", "", "Landlord ID")
	name := flag.String("name", "", "User name")
	email := flag.String("email", "", "User email")
	flag.Parse()

	log.SetFlags(log.Ltime)

	fmt.Printf("Connecting to %s...\n", *addr)

	client, err := NewClient(*addr, map[string]string{
		"role":        *role,
		"user_id":     *userID,
		"property_id": *propertyID,
		"tenant_id":   *tenantID,
		"landlord_id": *landlordID,
		"user_name":   *name,
		"user_email":  *email,
	})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	fmt.Printf("\nSession established: %s\n", client.sessionID)
	fmt.Println("Commands: /qr <n> quick reply, /act <n> run action, /clear, /quit")

	go client.ReadEvents()

	// Handle Ctrl+C
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nInterrupted")
		client.Close()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		var err error
		switch cmd, arg, _ := strings.Cut(input, " "); cmd {
		case "/quit":
			fmt.Println("Bye!")
			return
		case "/clear":
			err = client.Clear()
		case "/qr", "/act":
			n, convErr := strconv.Atoi(strings.TrimSpace(arg))
			if convErr != nil {
				err = fmt.Errorf("usage: %s <n>", cmd)
			} else if cmd == "/qr" {
				err = client.QuickReply(n)
			} else {
				err = client.Action(n)
			}
		default:
			err = client.Send(input)
		}
		if err != nil {
			log.Printf("%v", err)
		}
	}
}
