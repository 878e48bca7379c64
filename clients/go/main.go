// Command demo drives a scripted assistant session against a running
// messaging server and prints the resulting transcript.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/agrilink/messaging/clients/go/agrilink"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base URL")
	flag.Parse()

	c := agrilink.NewClient(*baseURL)

	conversations, err := c.Conversations("")
	if err != nil {
		fail("list conversations: %v", err)
	}
	fmt.Println("Conversations:")
	for _, conv := range conversations {
		fmt.Printf("  %s %-22s unread=%d  %s\n", conv.PeerAvatar, conv.PeerName, conv.UnreadCount, conv.LastMessage)
	}

	if _, err := c.Select(agrilink.AssistantConversation); err != nil {
		fail("select assistant: %v", err)
	}

	fmt.Println("\n> Show me nearby crops")
	if _, err := c.SendMessage(agrilink.AssistantConversation, "Show me nearby crops"); err != nil {
		fail("send: %v", err)
	}
	waitForReply(c)

	state, err := c.RequestPermission()
	if err != nil {
		fail("request permission: %v", err)
	}
	fmt.Printf("\nLocation permission: %s\n\n", state)

	t, err := c.Transcript(agrilink.AssistantConversation)
	if err != nil {
		fail("transcript: %v", err)
	}
	for _, msg := range t.Messages {
		who := "assistant"
		if msg.Sender == "self" {
			who = "you"
		}
		fmt.Printf("[%s] %s\n", who, msg.Text)
		for _, item := range msg.Items {
			fmt.Printf("        - %s  $%.2f/%s  %s away  (%s)\n",
				item.Name, item.Price, item.Unit, item.Distance, item.FarmerName)
		}
	}
}

// waitForReply polls until the typing indicator clears.
func waitForReply(c *agrilink.Client) {
	for i := 0; i < 50; i++ {
		t, err := c.Transcript(agrilink.AssistantConversation)
		if err != nil {
			fail("transcript: %v", err)
		}
		if !t.Typing {
			return
		}
		fmt.Print(".")
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println()
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
