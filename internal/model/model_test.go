// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", msg.ID)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if msg.IsStreaming {
		t.Error("user messages never stream")
	}
}

func TestNewAssistantPlaceholder(t *testing.T) {
	msg := NewAssistantPlaceholder()

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if !msg.IsStreaming {
		t.Error("placeholder should start streaming")
	}
	if !msg.IsEmpty() {
		t.Error("placeholder should start empty")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if seen[id] {
			t.Fatalf("duplicate message ID %q", id)
		}
		seen[id] = true
	}
}

func TestChatMessage_JSONOmitsStreamingState(t *testing.T) {
	msg := NewAssistantPlaceholder()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "IsStreaming") {
		t.Error("IsStreaming must not be persisted")
	}
}

func TestChatMessage_Preview(t *testing.T) {
	msg := NewUserMessage("a long message that should be truncated for list display")
	got := msg.Preview(10)
	if got != "a long ..." {
		t.Errorf("Preview = %q", got)
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"first name preferred", User{Username: "mei", FirstName: "Mei"}, "Mei"},
		{"falls back to username", User{Username: "mei"}, "mei"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUser_Initial(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{Username: "mei", FirstName: "akira"}, "A"},
		{User{Username: "mei"}, "M"},
		{User{}, "U"},
	}
	for _, tt := range tests {
		if got := tt.user.Initial(); got != tt.want {
			t.Errorf("Initial(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}

func TestCatalog(t *testing.T) {
	products := Catalog()
	if len(products) == 0 {
		t.Fatal("catalog should not be empty")
	}

	seen := make(map[string]bool)
	for _, p := range products {
		if p.ID == "" || p.Name == "" || p.URL == "" {
			t.Errorf("product %+v missing required fields", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate product ID %q", p.ID)
		}
		seen[p.ID] = true
	}
}
