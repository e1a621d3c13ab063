package auth

import "strings"

// Kind is the inferred authentication intent of a page.
type Kind string

const (
	KindLogin  Kind = "login"
	KindSignup Kind = "signup"
)

// signupPhrases and loginPhrases are the keyword sets scored against a
// page's visible text during auth-type inference.
var signupPhrases = []string{
	"sign up",
	"signup",
	"create account",
	"create your account",
	"create a free account",
	"register",
	"join now",
	"get started",
	"already have an account",
}

var loginPhrases = []string{
	"log in",
	"login",
	"sign in",
	"signin",
	"welcome back",
	"forgot password",
	"forgot your password",
	"remember me",
	"don't have an account",
}

// InferKind classifies a page as login or signup. It is a heuristic
// majority vote, not a guarantee: keyword occurrences in the visible
// text are scored per set, structural signals (a full-name field, a
// confirm-password field) count toward signup, and either structural
// signal alone is decisive. Ties fall to login, the safer default.
func InferKind(pageText string, hasNameField, hasConfirmField bool) Kind {
	if hasNameField || hasConfirmField {
		return KindSignup
	}

	text := strings.ToLower(pageText)
	signupScore := scorePhrases(text, signupPhrases)
	loginScore := scorePhrases(text, loginPhrases)

	if signupScore > loginScore {
		return KindSignup
	}
	return KindLogin
}

func scorePhrases(text string, phrases []string) int {
	score := 0
	for _, phrase := range phrases {
		score += strings.Count(text, phrase)
	}
	return score
}
