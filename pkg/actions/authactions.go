package actions

import (
	"context"

	"github.com/entrhq/pagepilot/pkg/auth"
)

func handleLogin(ctx context.Context, env *Env, params []string) (string, error) {
	creds := auth.Credentials{Username: params[0], Password: params[1]}
	return env.Auth.Login(ctx, env.Page, creds)
}

func handleSignup(ctx context.Context, env *Env, params []string) (string, error) {
	creds := auth.Credentials{Username: params[0], Password: params[1]}
	if len(params) > 2 {
		creds.FullName = params[2]
	}
	return env.Auth.Signup(ctx, env.Page, creds)
}

// handleAuthenticate lets the engine infer whether the page wants a
// login or a signup before filling anything.
func handleAuthenticate(ctx context.Context, env *Env, params []string) (string, error) {
	creds := auth.Credentials{Username: params[0], Password: params[1]}
	if len(params) > 2 {
		creds.FullName = params[2]
	}
	return env.Auth.Authenticate(ctx, env.Page, creds)
}
