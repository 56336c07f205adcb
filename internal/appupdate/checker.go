package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultLatestReleaseURL = "https://api.github.com/repos/janekbaraniewski/combochart/releases/latest"
	defaultReleasesPage     = "https://github.com/janekbaraniewski/combochart/releases/latest"
	defaultRequestTimeout   = 1500 * time.Millisecond
	tokenEnvVar             = "COMBOCHART_GITHUB_TOKEN"
)

type InstallMethod string

const (
	InstallMethodUnknown   InstallMethod = "unknown"
	InstallMethodHomebrew  InstallMethod = "homebrew"
	InstallMethodGoInstall InstallMethod = "go_install"
)

type CheckOptions struct {
	CurrentVersion   string
	ExecutablePath   string
	LatestReleaseURL string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

// Release is the subset of the GitHub release payload we use.
type Release struct {
	Version string
	PageURL string
}

type Result struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	InstallMethod   InstallMethod
	UpgradeHint     string
}

// Check compares the running version against the latest published release.
// Development and pre-release builds are never checked; the result then has
// an empty CurrentVersion and no error.
func Check(ctx context.Context, opts CheckOptions) (Result, error) {
	current := canonicalRelease(opts.CurrentVersion)
	method := detectInstallMethod(executablePath(opts.ExecutablePath))

	result := Result{
		CurrentVersion: current,
		InstallMethod:  method,
		UpgradeHint:    upgradeHint(method, defaultReleasesPage),
	}
	if current == "" {
		return result, nil
	}

	latest, err := fetchLatest(ctx, opts, current)
	if err != nil {
		return result, err
	}
	result.LatestVersion = latest.Version
	result.UpdateAvailable = semver.Compare(latest.Version, current) > 0
	if method == InstallMethodUnknown && latest.PageURL != "" {
		result.UpgradeHint = upgradeHint(method, latest.PageURL)
	}
	return result, nil
}

func fetchLatest(ctx context.Context, opts CheckOptions, current string) (Release, error) {
	endpoint := strings.TrimSpace(opts.LatestReleaseURL)
	if endpoint == "" {
		endpoint = defaultLatestReleaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Release{}, fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "combochart/"+current)
	if token := strings.TrimSpace(os.Getenv(tokenEnvVar)); token != "" && isGitHubAPI(endpoint) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetching latest release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("fetching latest release: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Release{}, fmt.Errorf("decoding latest release: %w", err)
	}
	v := canonicalRelease(payload.TagName)
	if v == "" {
		return Release{}, fmt.Errorf("latest release tag %q is not a stable version", payload.TagName)
	}
	return Release{Version: v, PageURL: payload.HTMLURL}, nil
}

// canonicalRelease returns v in canonical semver form, or "" for anything
// that is not a stable release.
func canonicalRelease(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

func executablePath(explicit string) string {
	p := strings.TrimSpace(explicit)
	if p == "" {
		exe, err := os.Executable()
		if err != nil {
			return ""
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		p = exe
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

func detectInstallMethod(path string) InstallMethod {
	if path == "" || path == "." {
		return InstallMethodUnknown
	}
	switch {
	case strings.Contains(path, "/cellar/combochart/"):
		return InstallMethodHomebrew
	case strings.HasSuffix(path, "/go/bin/combochart"), strings.HasSuffix(path, "/go/bin/combochart.exe"):
		return InstallMethodGoInstall
	}
	for _, dir := range goBinDirs() {
		if path == dir+"/combochart" || path == dir+"/combochart.exe" {
			return InstallMethodGoInstall
		}
	}
	return InstallMethodUnknown
}

func goBinDirs() []string {
	var dirs []string
	if gobin := strings.TrimSpace(os.Getenv("GOBIN")); gobin != "" {
		dirs = append(dirs, gobin)
	}
	for _, gp := range filepath.SplitList(os.Getenv("GOPATH")) {
		if strings.TrimSpace(gp) != "" {
			dirs = append(dirs, filepath.Join(gp, "bin"))
		}
	}
	for i, d := range dirs {
		dirs[i] = strings.ToLower(filepath.ToSlash(filepath.Clean(d)))
	}
	return dirs
}

func upgradeHint(method InstallMethod, page string) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade combochart"
	case InstallMethodGoInstall:
		return "go install github.com/janekbaraniewski/combochart/cmd/combochart@latest"
	default:
		return "download the latest release from " + page
	}
}

func isGitHubAPI(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https") && strings.EqualFold(u.Hostname(), "api.github.com")
}
