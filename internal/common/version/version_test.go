package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info("git version 2.45.1\n")
	if !strings.HasPrefix(info, "gitkit version "+Version) {
		t.Errorf("unexpected header in %q", info)
	}
	if !strings.HasSuffix(info, "\n  git: 2.45.1") {
		t.Errorf("expected git line, got %q", info)
	}

	if strings.Contains(Info(""), "git:") {
		t.Error("expected no git line without a git version")
	}
	if Short() != Version {
		t.Errorf("expected %s, got %s", Version, Short())
	}
}
