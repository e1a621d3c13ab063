package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/entrhq/pagepilot/pkg/driver"
)

func handleScreenshot(ctx context.Context, env *Env, params []string) (string, error) {
	path := ""
	if len(params) > 0 {
		path = params[0]
	}
	if path == "" {
		path = fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
	}
	path, err := artifactPath(env, path)
	if err != nil {
		return "", err
	}

	if err := env.Page.Screenshot(path, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("screenshot saved to %s", path), nil
}

func handleSaveCookies(ctx context.Context, env *Env, params []string) (string, error) {
	path, err := artifactPath(env, params[0])
	if err != nil {
		return "", err
	}

	cookies, err := env.Browser.Cookies()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write cookie file: %w", err)
	}
	return fmt.Sprintf("saved %d cookies to %s", len(cookies), path), nil
}

func handleLoadCookies(ctx context.Context, env *Env, params []string) (string, error) {
	path, err := artifactPath(env, params[0])
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookies []driver.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return "", fmt.Errorf("failed to decode cookie file: %w", err)
	}
	if err := env.Browser.SetCookies(cookies); err != nil {
		return "", err
	}
	return fmt.Sprintf("loaded %d cookies from %s", len(cookies), path), nil
}

// artifactPath applies the artifact guard when one is configured.
func artifactPath(env *Env, path string) (string, error) {
	if env.Artifacts == nil {
		return path, nil
	}
	return env.Artifacts.Resolve(path)
}
