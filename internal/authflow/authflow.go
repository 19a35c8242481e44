// Package authflow models the authentication UI flow as an explicit state
// machine: six views, typed transitions between them, and client-side
// validation in front of every submit.
//
// The flow deliberately knows nothing about rendering. It exposes the
// current State; a frontend draws whatever view the state names and calls
// back into the flow on user input.
package authflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mveraz/citypulse/internal/client"
	"github.com/mveraz/citypulse/internal/model"
)

// View names one of the six screens.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewCheckEmail
	ViewForgotPassword
	ViewResetSent
	ViewNewPassword
)

// String returns the view's UI name.
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "LOGIN"
	case ViewRegister:
		return "REGISTER"
	case ViewCheckEmail:
		return "CHECK_EMAIL"
	case ViewForgotPassword:
		return "FORGOT_PASSWORD"
	case ViewResetSent:
		return "RESET_SENT"
	case ViewNewPassword:
		return "NEW_PASSWORD"
	}
	return "UNKNOWN"
}

// MinPasswordLength mirrors the server-side rule so users hear about a short
// password before the request leaves the machine.
const MinPasswordLength = 6

// ResendCooldown is how long the check-email view blocks a second resend.
const ResendCooldown = 30 * time.Second

// Fields holds the form inputs. Switching views clears them.
type Fields struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
}

// State is the observable flow state.
type State struct {
	View View
	// RegisteredEmail is the address the check-email view talks about. Only
	// meaningful when View is ViewCheckEmail.
	RegisteredEmail string
	Fields          Fields
	Pending         bool
	ErrorMessage    string
	InfoMessage     string
}

// Backend is the slice of the HTTP client the flow needs.
type Backend interface {
	SignUp(ctx context.Context, email, password, username string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*client.Session, error)
	ResetPassword(ctx context.Context, email string) error
	ResendConfirmation(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
}

// errorMessages translates the server's stable error codes into user-facing
// text. Unknown codes fall back to a generic line.
var errorMessages = map[string]string{
	"invalid_credentials":     "Incorrect email or password.",
	"email_not_confirmed":     "Please confirm your email address before signing in.",
	"user_already_exists":     "An account with this email or username already exists.",
	"signup_disabled":         "New registrations are currently disabled.",
	"weak_password":           "Password must be at least 6 characters.",
	"over_request_rate_limit": "Too many attempts. Please wait a moment and try again.",
}

const (
	genericErrorMessage = "Something went wrong. Please try again."
	networkErrorMessage = "Could not reach the server. Check your connection and try again."
)

// Flow is the auth state machine. Safe for concurrent use; a submit while
// another is pending is ignored, which is what a disabled button does.
type Flow struct {
	backend Backend

	// OnSignedIn fires after a successful login, outside the flow lock.
	// Set it before first use.
	OnSignedIn func(*client.Session)

	// now is swapped in tests to step through the resend cooldown.
	now func() time.Time

	mu         sync.Mutex
	state      State
	lastResend time.Time
}

// New creates a Flow starting at the login view.
func New(backend Backend) *Flow {
	return &Flow{
		backend: backend,
		now:     time.Now,
		state:   State{View: ViewLogin},
	}
}

// State returns a copy of the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SwitchTo moves to another view. Form fields and messages reset — nothing
// typed on one screen leaks into the next. Ignored while a submit is
// pending.
func (f *Flow) SwitchTo(view View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Pending {
		return
	}
	f.state = State{View: view, RegisteredEmail: f.state.RegisteredEmail}
	if view != ViewCheckEmail {
		f.state.RegisteredEmail = ""
	}
}

// EnterReset jumps straight to the new-password view. Called when the app
// is opened through a reset link (mode=reset).
func (f *Flow) EnterReset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Pending {
		return
	}
	f.state = State{View: ViewNewPassword}
}

// SetFields replaces the form inputs.
func (f *Flow) SetFields(fields Fields) {
	f.mu.Lock()
	f.state.Fields = fields
	f.mu.Unlock()
}

// SubmitLogin attempts a sign-in with the current fields. An account whose
// email is unconfirmed lands on the check-email view instead of an error.
func (f *Flow) SubmitLogin(ctx context.Context) {
	fields, ok := f.begin(ViewLogin)
	if !ok {
		return
	}

	email := strings.TrimSpace(fields.Email)
	if email == "" || fields.Password == "" {
		f.fail("Email and password are required.")
		return
	}

	session, err := f.backend.SignIn(ctx, email, fields.Password)
	if err != nil {
		if client.ErrorCode(err) == "email_not_confirmed" {
			f.transition(State{View: ViewCheckEmail, RegisteredEmail: email})
			return
		}
		f.fail(messageFor(err))
		return
	}

	f.transition(State{View: ViewLogin})
	if f.OnSignedIn != nil {
		f.OnSignedIn(session)
	}
}

// SubmitRegister attempts a sign-up. Success lands on the check-email view
// with the registered address.
func (f *Flow) SubmitRegister(ctx context.Context) {
	fields, ok := f.begin(ViewRegister)
	if !ok {
		return
	}

	email := strings.TrimSpace(fields.Email)
	switch {
	case email == "":
		f.fail("Email is required.")
		return
	case strings.TrimSpace(fields.Username) == "":
		f.fail("Username is required.")
		return
	case len(fields.Password) < MinPasswordLength:
		f.fail(errorMessages["weak_password"])
		return
	case fields.Password != fields.ConfirmPassword:
		f.fail("Passwords do not match.")
		return
	}

	if _, err := f.backend.SignUp(ctx, email, fields.Password, strings.TrimSpace(fields.Username)); err != nil {
		f.fail(messageFor(err))
		return
	}

	f.transition(State{View: ViewCheckEmail, RegisteredEmail: email})
}

// SubmitForgot requests a reset email and moves to the sent view.
func (f *Flow) SubmitForgot(ctx context.Context) {
	fields, ok := f.begin(ViewForgotPassword)
	if !ok {
		return
	}

	email := strings.TrimSpace(fields.Email)
	if email == "" {
		f.fail("Email is required.")
		return
	}

	if err := f.backend.ResetPassword(ctx, email); err != nil {
		f.fail(messageFor(err))
		return
	}
	f.transition(State{View: ViewResetSent})
}

// SubmitNewPassword sets the password through the recovery session and
// returns to login.
func (f *Flow) SubmitNewPassword(ctx context.Context) {
	fields, ok := f.begin(ViewNewPassword)
	if !ok {
		return
	}

	switch {
	case len(fields.Password) < MinPasswordLength:
		f.fail(errorMessages["weak_password"])
		return
	case fields.Password != fields.ConfirmPassword:
		f.fail("Passwords do not match.")
		return
	}

	if err := f.backend.UpdatePassword(ctx, fields.Password); err != nil {
		f.fail(messageFor(err))
		return
	}

	f.transition(State{View: ViewLogin, InfoMessage: "Password updated. Sign in with your new password."})
}

// Resend asks for another confirmation email from the check-email view. A
// second request inside the cooldown window is refused locally, before any
// network traffic.
func (f *Flow) Resend(ctx context.Context) {
	f.mu.Lock()
	if f.state.View != ViewCheckEmail || f.state.Pending {
		f.mu.Unlock()
		return
	}
	if wait := ResendCooldown - f.now().Sub(f.lastResend); f.lastResend != (time.Time{}) && wait > 0 {
		f.state.ErrorMessage = errorMessages["over_request_rate_limit"]
		f.mu.Unlock()
		return
	}
	email := f.state.RegisteredEmail
	f.state.Pending = true
	f.mu.Unlock()

	err := f.backend.ResendConfirmation(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Pending = false
	if err != nil {
		f.state.ErrorMessage = messageFor(err)
		return
	}
	f.lastResend = f.now()
	f.state.InfoMessage = "Confirmation email sent."
	f.state.ErrorMessage = ""
}

// begin gates a submit: the flow must be on the expected view and not
// already pending. It marks the flow pending and hands back the fields.
func (f *Flow) begin(view View) (Fields, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.View != view || f.state.Pending {
		return Fields{}, false
	}
	f.state.Pending = true
	f.state.ErrorMessage = ""
	f.state.InfoMessage = ""
	return f.state.Fields, true
}

// fail ends a pending submit on the same view with an error message.
func (f *Flow) fail(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Pending = false
	f.state.ErrorMessage = message
}

// transition ends a pending submit by replacing the state. Fields reset on
// every transition.
func (f *Flow) transition(next State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = next
}

// messageFor translates a backend error into user-facing text. Errors that
// never reached the server (no APIError in the chain) read as a network
// failure; an unrecognized code shows the server's own message when it sent
// one.
func messageFor(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return networkErrorMessage
	}
	if msg, ok := errorMessages[apiErr.Code]; ok {
		return msg
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return genericErrorMessage
}
