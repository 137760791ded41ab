package azuredevops

import (
	"fmt"
	"regexp"
)

var (
	devAzurePattern     = regexp.MustCompile(`^(https://dev\.azure\.com/[^/]+)`)
	visualStudioPattern = regexp.MustCompile(`^(https://[^/]+\.visualstudio\.com)`)
)

// ParseOrgURL extracts the organization URL from a repository web URL,
// e.g. https://dev.azure.com/org/project/_git/repo → https://dev.azure.com/org.
func ParseOrgURL(webURL string) (string, error) {
	if m := devAzurePattern.FindStringSubmatch(webURL); m != nil {
		return m[1], nil
	}
	if m := visualStudioPattern.FindStringSubmatch(webURL); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("could not parse organization URL from %q", webURL)
}
