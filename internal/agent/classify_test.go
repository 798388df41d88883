package agent_test

import (
	"strings"
	"testing"

	"github.com/fathomhq/fathom/internal/agent"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		stdout    string
		image     bool
		wantText  string
		wantImage bool
	}{
		{"text only", "Average fare: 32.2\n", false, "Average fare: 32.2", false},
		{"text and image", "See chart.\n", true, "See chart.", true},
		{"image only gets placeholder", "", true, "Here is the visualisation:", true},
		{"whitespace stdout counts as absent", "  \n\t", true, "Here is the visualisation:", true},
		{"nothing produced", "", false, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := agent.Classify(tc.stdout, tc.image, "plot_ab12cd34.png")
			if tc.wantText != "" && resp.Text != tc.wantText {
				t.Fatalf("text = %q, want %q", resp.Text, tc.wantText)
			}
			if tc.wantText == "" && !strings.Contains(resp.Text, "no printable output") {
				t.Fatalf("expected no-output message, got %q", resp.Text)
			}
			if tc.wantImage && resp.ImageFile != "plot_ab12cd34.png" {
				t.Fatalf("image file = %q", resp.ImageFile)
			}
			if !tc.wantImage && resp.ImageFile != "" {
				t.Fatalf("unexpected image file %q", resp.ImageFile)
			}
		})
	}
}
