package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/dealsift/dealsift/internal/jmap"
	"github.com/dealsift/dealsift/internal/pipeline"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "all", want: 0},
		{in: "100", want: 100},
		{in: "1", want: 1},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "many", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLimit(tt.in)
			if tt.wantErr {
				var validationErr *pipeline.ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("want ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseLimit(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveCredentials_EnvFallback(t *testing.T) {
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvPassword, "env-pass")

	creds, err := resolveCredentials("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "env-user" || creds.Password != "env-pass" {
		t.Errorf("creds = %+v, want env values", creds)
	}

	// Flags win over env.
	creds, err = resolveCredentials("flag-user", "flag-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "flag-user" || creds.Password != "flag-pass" {
		t.Errorf("creds = %+v, want flag values", creds)
	}
}

func TestResolveCredentials_Missing(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")

	_, err := resolveCredentials("", "")
	var validationErr *pipeline.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth",
			err:  &jmap.Error{Kind: jmap.KindAuth, Op: "authenticate"},
			want: "authentication failed",
		},
		{
			name: "missing ids",
			err:  &jmap.Error{Kind: jmap.KindNotFound, Op: "verify messages", MissingIDs: []string{"B", "C"}},
			want: "messages not found: B, C",
		},
		{
			name: "validation",
			err:  &pipeline.ValidationError{Reason: "counts must match"},
			want: "counts must match",
		},
		{
			name: "item failures",
			err:  &pipeline.ItemFailuresError{Failed: 2, Total: 5},
			want: "2 of 5 item(s) failed",
		},
		{
			name: "wrapped",
			err:  errors.New("plain failure"),
			want: "plain failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("FormatError = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRootCommand_HasAllSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{
		"get-emails": false,
		"get-image":  false,
		"extract":    false,
		"archive":    false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}

	if root.Version == "" {
		t.Error("root command has no version")
	}
}
