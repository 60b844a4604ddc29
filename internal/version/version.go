package version

import (
	"fmt"
	"log"
	"strings"

	"github.com/pam-ai/pamgate/theme"
)

var (
	Name        = "pamgate"
	Description = "Safety gate and model router for the PAM assistant"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
)

const (
	GithubHomeText = "github.com/pam-ai/pamgate"
)

func PrintVersionInfo(extendedInfo bool, vlog *log.Logger) {
	var b strings.Builder

	b.WriteString(theme.ColourSplash(`
╔──────────────────────────────────────────────╗
│  ██████╗  █████╗ ███╗   ███╗                 │
│  ██╔══██╗██╔══██╗████╗ ████║   gate          │
│  ██████╔╝███████║██╔████╔██║                 │
│  ██╔═══╝ ██╔══██║██║╚██╔╝██║                 │
│  ██║     ██║  ██║██║ ╚═╝ ██║                 │` + "\n"))

	b.WriteString(theme.ColourSplash("│  "))
	b.WriteString(theme.StyleUrl(GithubHomeText))
	b.WriteString(" ")
	b.WriteString(theme.ColourVersion(fmt.Sprintf("%-18s", Version)))
	b.WriteString(theme.ColourSplash("│\n"))
	b.WriteString(theme.ColourSplash("╚──────────────────────────────────────────────╝"))

	if extendedInfo {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s\n", User))
	}

	vlog.Println(b.String())
}

// Short is used by the /version endpoint and startup logs
func Short() string {
	return fmt.Sprintf("%s %s (%s)", Name, Version, Commit)
}
