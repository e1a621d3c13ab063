package auth

// Field selector priority lists for the generic fill flow. Each list is
// ordered most-reliable first: semantic input types, then name/id
// matches with decoy exclusions, then placeholder/aria hints, then
// class matches, then a broad last resort.

var usernameSelectors = []string{
	`input[type="email"]`,
	`input[name="email" i]`,
	`input[name="username" i]`,
	`input[name*="email" i]:not([type="checkbox"]):not([type="hidden"])`,
	`input[name*="user" i]:not([name*="remember" i]):not([type="checkbox"]):not([type="hidden"])`,
	`input[name*="login" i]:not([type="checkbox"]):not([type="hidden"]):not([type="password"])`,
	`input[id="email" i]`,
	`input[id="username" i]`,
	`input[id*="email" i]:not([type="checkbox"]):not([type="hidden"])`,
	`input[id*="user" i]:not([id*="remember" i]):not([type="checkbox"]):not([type="hidden"])`,
	`input[id*="login" i]:not([type="checkbox"]):not([type="hidden"]):not([type="password"])`,
	`input[placeholder*="email" i]`,
	`input[placeholder*="username" i]`,
	`input[aria-label*="email" i]`,
	`input[aria-label*="username" i]`,
	`input[class*="email" i]`,
	`input[class*="username" i]`,
	`form input[type="text"]`,
}

var passwordSelectors = []string{
	`input[type="password"]:not([name*="confirm" i]):not([name*="repeat" i]):not([id*="confirm" i]):not([id*="repeat" i])`,
	`input[name="password" i]`,
	`input[name*="pass" i]:not([name*="confirm" i])`,
	`input[id*="pass" i]:not([id*="confirm" i])`,
	`input[placeholder*="password" i]`,
	`input[aria-label*="password" i]`,
	`input[class*="password" i]`,
}

var fullNameSelectors = []string{
	`input[autocomplete="name"]`,
	`input[name="name" i]:not([name*="user" i])`,
	`input[name*="full" i]:not([type="checkbox"]):not([type="hidden"])`,
	`input[id="name" i]:not([id*="user" i])`,
	`input[id*="full" i]:not([type="checkbox"]):not([type="hidden"])`,
	`input[placeholder*="full name" i]`,
	`input[placeholder*="your name" i]`,
	`input[aria-label*="name" i]:not([aria-label*="user" i])`,
}

var confirmPasswordSelectors = []string{
	`input[type="password"][name*="confirm" i]`,
	`input[type="password"][name*="repeat" i]`,
	`input[type="password"][id*="confirm" i]`,
	`input[type="password"][id*="repeat" i]`,
	`input[type="password"][placeholder*="confirm" i]`,
	`input[name*="password2" i]`,
	`input[id*="password2" i]`,
}

var loginSubmitSelectors = []string{
	`form button[type="submit"]`,
	`form input[type="submit"]`,
	`button[type="submit"]`,
	`input[type="submit"]`,
	`button[id*="login" i]`,
	`button[id*="signin" i]`,
	`button[class*="login" i]`,
	`button[class*="signin" i]`,
	`button:has-text("Log in")`,
	`button:has-text("Sign in")`,
	`button:has-text("Login")`,
	`a:has-text("Log in")`,
	`a:has-text("Sign in")`,
	`form button`,
}

var signupSubmitSelectors = []string{
	`form button[type="submit"]`,
	`form input[type="submit"]`,
	`button[type="submit"]`,
	`input[type="submit"]`,
	`button[id*="signup" i]`,
	`button[id*="register" i]`,
	`button[class*="signup" i]`,
	`button[class*="register" i]`,
	`button:has-text("Sign up")`,
	`button:has-text("Create account")`,
	`button:has-text("Register")`,
	`button:has-text("Get started")`,
	`form button`,
}

// Structural signals used by auth-type inference: a non-email,
// non-password name field and a confirm-password field suggest signup.
const (
	nameFieldSignal = `input[autocomplete="name"], input[name="name" i]:not([name*="user" i]), input[name*="full" i], input[placeholder*="full name" i]`

	confirmFieldSignal = `input[type="password"][name*="confirm" i], input[type="password"][name*="repeat" i], input[type="password"][id*="confirm" i], input[name*="password2" i]`
)

func submitSelectors(kind Kind) []string {
	if kind == KindSignup {
		return signupSubmitSelectors
	}
	return loginSubmitSelectors
}
