// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// DotsSpinner - Classic three-dot typing animation
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for the given tick.
func (s SpinnerConfig) Frame(tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	return s.Frames[tick%len(s.Frames)]
}

// =============================================================================
// TYPING ANIMATION
// =============================================================================

// TypingCursor characters for the blinking cursor.
var TypingCursor = []string{"_", " "}

// CursorBlinkRate is the rate at which the cursor blinks.
var CursorBlinkRate = 530 * time.Millisecond
