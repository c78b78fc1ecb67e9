// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique and sequential
	ids := []Id{
		DownloadFailedId,
		ChecksumMismatchId,
		ArchiveCorruptId,
		ArchiveUnsafeId,
		ToolchainMissingId,
		BuildStepFailedId,
		RecipeParseErrorId,
		RecipeNotFoundId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if DownloadFailedId != 1 {
		t.Errorf("DownloadFailedId = %d, want 1", DownloadFailedId)
	}
}

func TestIssue_Id(t *testing.T) {
	issue := Get(DownloadFailedId)
	if issue == nil {
		t.Fatal("Get(DownloadFailedId) returned nil")
	}

	if issue.Id() != DownloadFailedId {
		t.Errorf("issue.Id() = %d, want %d", issue.Id(), DownloadFailedId)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(ChecksumMismatchId)
	if issue == nil {
		t.Fatal("Get(ChecksumMismatchId) returned nil")
	}

	msg := issue.MarkdownMsg()
	if msg == "" {
		t.Error("MarkdownMsg() returned empty string")
	}

	if !strings.Contains(string(msg), "Checksum mismatch") {
		t.Error("MarkdownMsg() should contain 'Checksum mismatch'")
	}
}

func TestIssue_Render(t *testing.T) {
	// Mock the render function for testing
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	issue := Get(BuildStepFailedId)
	if issue == nil {
		t.Fatal("Get(BuildStepFailedId) returned nil")
	}

	rendered, err := issue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !strings.Contains(rendered, "Build step failed") {
		t.Error("Render() output should contain 'Build step failed'")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{DownloadFailedId, false, "Download failed"},
		{ChecksumMismatchId, false, "Checksum mismatch"},
		{ArchiveCorruptId, false, "Corrupt archive"},
		{ArchiveUnsafeId, false, "Unsafe archive"},
		{ToolchainMissingId, false, "Build toolchain missing"},
		{BuildStepFailedId, false, "Build step failed"},
		{RecipeParseErrorId, false, "Failed to parse recipe"},
		{RecipeNotFoundId, false, "Recipe not found"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}

			if tt.contains != "" && !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain '%s'", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	expectedCount := 10 // Based on the number of predefined issues
	if len(issues) != expectedCount {
		t.Errorf("Values() returned %d issues, want %d", len(issues), expectedCount)
	}

	for _, issue := range issues {
		if issue.Id() == 0 {
			t.Error("found issue with ID 0")
		}
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !strings.Contains(rendered, "See also") {
		t.Error("Render() with links should contain 'See also'")
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	for _, issue := range Values() {
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	for _, issue := range Values() {
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}
