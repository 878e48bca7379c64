// Package agrilink provides a client for the AgriLink messaging API.
package agrilink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AssistantConversation is the ID of the assistant thread in the demo
// dataset.
const AssistantConversation = "00000000-0000-0000-0000-000000000001"

// Client is an AgriLink messaging API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Conversation is a chat thread summary.
type Conversation struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	PeerName        string `json:"peer_name"`
	PeerAvatar      string `json:"peer_avatar,omitempty"`
	LastMessage     string `json:"last_message"`
	LastMessageTime int64  `json:"last_message_ts"`
	UnreadCount     int    `json:"unread_count"`
	Online          bool   `json:"online"`
}

// ItemCard is a crop listing embedded in an item-list reply.
type ItemCard struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url"`
	Price      float64 `json:"price"`
	Unit       string  `json:"unit"`
	Distance   string  `json:"distance"`
	FarmerName string  `json:"farmer_name"`
}

// Message is one transcript entry.
type Message struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Sender    string     `json:"sender"`
	Kind      string     `json:"kind"`
	Status    string     `json:"status,omitempty"`
	Items     []ItemCard `json:"items,omitempty"`
	Timestamp int64      `json:"ts"`
}

// Transcript is a conversation snapshot with its messages.
type Transcript struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
	Typing       bool         `json:"typing"`
}

type conversationList struct {
	Conversations []Conversation `json:"conversations"`
}

type sendResult struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

type permissionResult struct {
	State string `json:"state"`
}

type quickRepliesResult struct {
	QuickReplies []string `json:"quick_replies"`
}

// Conversations lists conversation summaries, optionally filtered by peer
// name.
func (c *Client) Conversations(query string) ([]Conversation, error) {
	path := "/conversations"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out conversationList
	if err := c.get(path, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// Transcript fetches a conversation's transcript snapshot.
func (c *Client) Transcript(conversationID string) (*Transcript, error) {
	var out Transcript
	if err := c.get("/conversations/"+conversationID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage posts a user message and returns the assigned message id.
func (c *Client) SendMessage(conversationID, text string) (string, error) {
	var out sendResult
	err := c.post("/conversations/"+conversationID+"/messages", map[string]string{"text": text}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// Select makes a conversation the active thread.
func (c *Client) Select(conversationID string) (*Conversation, error) {
	var out Conversation
	if err := c.post("/conversations/"+conversationID+"/select", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deselect clears the active thread.
func (c *Client) Deselect() error {
	return c.post("/conversations/deselect", nil, nil)
}

// PermissionState reads the location permission state.
func (c *Client) PermissionState() (string, error) {
	var out permissionResult
	if err := c.get("/assistant/permission", &out); err != nil {
		return "", err
	}
	return out.State, nil
}

// RequestPermission runs the geolocation acquisition and returns the
// resolved state ("granted" or "denied").
func (c *Client) RequestPermission() (string, error) {
	var out permissionResult
	if err := c.post("/assistant/permission", nil, &out); err != nil {
		return "", err
	}
	return out.State, nil
}

// QuickReplies lists the assistant suggestion chips.
func (c *Client) QuickReplies() ([]string, error) {
	var out quickRepliesResult
	if err := c.get("/assistant/quick-replies", &out); err != nil {
		return nil, err
	}
	return out.QuickReplies, nil
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
