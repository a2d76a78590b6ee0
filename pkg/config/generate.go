package config

import (
	"bytes"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent renders s as a TOML settings file. Every value line is
// commented out so the output can be saved as a starting point without
// pinning anything.
func GenerateConfigContent(s *Settings) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	header := "# dotsync settings, save as " + DefaultUserConfigPath() + "\n\n"
	return header + commentOutConfigValues(buf.String()), nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [repo], [vcs]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
