// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// User is the identity record mirrored from the shizuha-id service.
// This application never creates or mutates users; it only renders what the
// identity service wrote to the shared state directory.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns the name shown in the dashboard header: the first
// name when present, the username otherwise.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Initial returns the single uppercase character used for the avatar badge.
func (u *User) Initial() string {
	name := u.FirstName
	if name == "" {
		name = u.Username
	}
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}
