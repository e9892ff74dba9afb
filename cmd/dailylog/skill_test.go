// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation handling, and file content.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedSkillContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}
	s := string(content)
	for _, want := range []string{"name: dailylog", "dailylog meal add", "dailylog workout add", "dailylog progress"} {
		if !strings.Contains(s, want) {
			t.Errorf("skill is missing %q", want)
		}
	}
}

func TestInstallSkillWithYes(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader(""), home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	installed, err := os.ReadFile(filepath.Join(home, ".claude", "skills", "dailylog", "SKILL.md"))
	if err != nil {
		t.Fatalf("skill file not written: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(installed, embedded) {
		t.Error("installed skill differs from the embedded one")
	}
	if !strings.Contains(out.String(), "Installed dailylog skill") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestInstallSkillDeclined(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = false

	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader("n\n"), home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("expected cancel message, got: %s", out.String())
	}
	if _, err := os.Stat(filepath.Join(home, ".claude", "skills", "dailylog")); !os.IsNotExist(err) {
		t.Error("skill directory should not be created when declined")
	}
}

func TestInstallSkillConfirmedOverwrites(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = false
	skillPath := filepath.Join(home, ".claude", "skills", "dailylog", "SKILL.md")
	if err := os.MkdirAll(filepath.Dir(skillPath), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(skillPath, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader("yes\n"), home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("expected overwrite note, got: %s", out.String())
	}
	installed, _ := os.ReadFile(skillPath)
	if string(installed) == "old" {
		t.Error("skill file was not overwritten")
	}
}
