package host

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewTerminal(WithIO(strings.NewReader(input), out, errOut)), out, errOut
}

func TestPromptInput_RetriesUntilValid(t *testing.T) {
	terminal, _, errOut := newTestTerminal("\n  \nsecret-key\n")

	value, ok, err := terminal.PromptInput(context.Background(), assistant.InputOptions{
		Prompt: "Enter your API Key",
		Secret: true,
		Validate: func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "API key cannot be empty"
			}
			return ""
		},
	})
	if err != nil || !ok {
		t.Fatalf("Expected a value, got ok=%v err=%v", ok, err)
	}
	if value != "secret-key" {
		t.Errorf("Expected secret-key, got %q", value)
	}
	if strings.Count(errOut.String(), "API key cannot be empty") != 2 {
		t.Errorf("Expected two validation messages, got %q", errOut.String())
	}
}

func TestPromptInput_DefaultValue(t *testing.T) {
	terminal, _, _ := newTestTerminal("\n")

	value, ok, err := terminal.PromptInput(context.Background(), assistant.InputOptions{
		Prompt: "Enter the model name",
		Value:  "gpt-3.5-turbo",
	})
	if err != nil || !ok {
		t.Fatalf("Expected a value, got ok=%v err=%v", ok, err)
	}
	if value != "gpt-3.5-turbo" {
		t.Errorf("Expected default value, got %q", value)
	}
}

func TestPromptInput_EOFDismisses(t *testing.T) {
	terminal, _, _ := newTestTerminal("")

	_, ok, err := terminal.PromptInput(context.Background(), assistant.InputOptions{Prompt: "x"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected dismissed input on EOF")
	}
}

func TestConfirm(t *testing.T) {
	terminal, out, _ := newTestTerminal("a\n")

	choice, err := terminal.Confirm(context.Background(), "Apply the suggested fixes?", "Apply", "Cancel")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if choice != "Apply" {
		t.Errorf("Expected Apply, got %q", choice)
	}
	if !strings.Contains(out.String(), "[Apply/Cancel]") {
		t.Errorf("Expected options in prompt, got %q", out.String())
	}
}

func TestMatchOption(t *testing.T) {
	options := []string{"Apply", "Cancel"}
	if matchOption("CAN", options) != "Cancel" {
		t.Error("Expected case-insensitive prefix match")
	}
	if matchOption("", options) != "" {
		t.Error("Expected empty input to dismiss")
	}
	if matchOption("nope", options) != "" {
		t.Error("Expected unknown input to dismiss")
	}
}

func TestShowInfoAndPanel_PlainOutput(t *testing.T) {
	terminal, out, errOut := newTestTerminal("")

	terminal.ShowInfo("hello")
	terminal.ShowPanel("Title", "**body**")
	terminal.ShowError("Error: boom")

	if !strings.Contains(out.String(), "hello\n") {
		t.Errorf("Expected info in output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Title\n**body**") {
		t.Errorf("Expected raw panel without a tty, got %q", out.String())
	}
	if errOut.String() != "Error: boom\n" {
		t.Errorf("Expected error on stderr, got %q", errOut.String())
	}
}

func TestShowPresence(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	terminal := NewTerminal(WithIO(strings.NewReader(""), out, errOut), WithPresence(true))

	terminal.ShowPresence(assistant.Processing)
	if !strings.Contains(errOut.String(), "processing") {
		t.Errorf("Expected presence on stderr, got %q", errOut.String())
	}
}

func TestSelectFileAndReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("import os\ndef f():pass\nprint(f())\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	terminal, _, _ := newTestTerminal("")
	if _, ok := terminal.Selection(); ok {
		t.Fatal("Expected no selection before SelectFile")
	}

	if err := terminal.SelectFile(path, 2, 2); err != nil {
		t.Fatalf("Failed to select: %v", err)
	}
	sel, ok := terminal.Selection()
	if !ok {
		t.Fatal("Expected a selection")
	}
	if sel.Text != "def f():pass" || sel.Language != "python" {
		t.Errorf("Unexpected selection %+v", sel)
	}

	if err := terminal.ReplaceSelection(sel, "def f():\n    pass"); err != nil {
		t.Fatalf("Failed to replace: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	expected := "import os\ndef f():\n    pass\nprint(f())\n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestSelectFile_WholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.go")
	if err := os.WriteFile(path, []byte("package a\n\nvar x = 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	terminal, _, _ := newTestTerminal("")
	if err := terminal.SelectFile(path, 0, 0); err != nil {
		t.Fatalf("Failed to select: %v", err)
	}
	sel, _ := terminal.Selection()
	if sel.Text != "package a\n\nvar x = 1" || sel.StartLine != 1 || sel.EndLine != 3 {
		t.Errorf("Unexpected whole file selection %+v", sel)
	}

	if err := terminal.SelectFile(path, 10, 12); err == nil {
		t.Error("Expected error for a range past the end")
	}
}

func TestParseLineRange(t *testing.T) {
	cases := map[string][2]int{
		"":      {0, 0},
		"5":     {5, 5},
		"3:7":   {3, 7},
		"4:":    {4, -1},
		" 2:2 ": {2, 2},
	}
	for input, expected := range cases {
		start, end, err := ParseLineRange(input)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", input, err)
			continue
		}
		if start != expected[0] || end != expected[1] {
			t.Errorf("For %q expected %v, got %d:%d", input, expected, start, end)
		}
	}

	for _, input := range []string{"a:b", "0:3", "5:2", "-1"} {
		if _, _, err := ParseLineRange(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestLanguageID(t *testing.T) {
	if LanguageID("x/main.GO") != "go" {
		t.Error("Expected go for .GO")
	}
	if LanguageID("README") != "plaintext" {
		t.Error("Expected plaintext for unknown extension")
	}
}
