package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		{10*time.Minute + 5*time.Second, "10:05"},
		{61*time.Minute + 1*time.Second, "1:01:01"},
		{25*time.Hour + 45*time.Minute + 30*time.Second, "25:45:30"},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10", 10, "exactly10"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"Кино - Группа крови", 10, "Кино - ..."},
		{"Ария", 4, "Ария"},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestOrDash(t *testing.T) {
	if OrDash("") != "-" {
		t.Error("Ожидался '-' для пустой строки")
	}
	if OrDash("Band") != "Band" {
		t.Error("Непустая строка должна возвращаться без изменений")
	}
}
