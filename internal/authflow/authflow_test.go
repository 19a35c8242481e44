package authflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mveraz/citypulse/internal/client"
	"github.com/mveraz/citypulse/internal/model"
)

// fakeBackend scripts the auth endpoints with canned outcomes.
type fakeBackend struct {
	signInErr  error
	signUpErr  error
	resetErr   error
	resendErr  error
	updateErr  error
	signIns    int
	signUps    int
	resends    int
	gate       chan struct{} // when non-nil, SignIn blocks on it
	lastSignIn [2]string
}

func (b *fakeBackend) SignIn(_ context.Context, email, password string) (*client.Session, error) {
	b.signIns++
	b.lastSignIn = [2]string{email, password}
	if b.gate != nil {
		<-b.gate
	}
	if b.signInErr != nil {
		return nil, b.signInErr
	}
	return &client.Session{AccessToken: "tok", User: &model.User{Email: email}}, nil
}

func (b *fakeBackend) SignUp(_ context.Context, email, _, _ string) (*model.User, error) {
	b.signUps++
	if b.signUpErr != nil {
		return nil, b.signUpErr
	}
	return &model.User{Email: email}, nil
}

func (b *fakeBackend) ResetPassword(context.Context, string) error { return b.resetErr }

func (b *fakeBackend) ResendConfirmation(context.Context, string) error {
	b.resends++
	return b.resendErr
}

func (b *fakeBackend) UpdatePassword(context.Context, string) error { return b.updateErr }

func apiError(code string) error {
	return &client.APIError{Status: 400, Type: "unauthorized", Message: "x", Code: code}
}

func TestInitialViewIsLogin(t *testing.T) {
	f := New(&fakeBackend{})
	if got := f.State().View; got != ViewLogin {
		t.Errorf("initial view = %v, want LOGIN", got)
	}
}

func TestSwitchTo_ResetsFields(t *testing.T) {
	f := New(&fakeBackend{})
	f.SetFields(Fields{Email: "a@b.com", Password: "hunter2"})

	f.SwitchTo(ViewRegister)

	state := f.State()
	if state.View != ViewRegister {
		t.Fatalf("view = %v, want REGISTER", state.View)
	}
	if state.Fields != (Fields{}) {
		t.Errorf("fields survived the view switch: %+v", state.Fields)
	}
}

func TestSubmitLogin_Success(t *testing.T) {
	backend := &fakeBackend{}
	f := New(backend)

	var gotSession *client.Session
	f.OnSignedIn = func(s *client.Session) { gotSession = s }

	f.SetFields(Fields{Email: " a@b.com ", Password: "secret1"})
	f.SubmitLogin(context.Background())

	if gotSession == nil || gotSession.AccessToken != "tok" {
		t.Fatalf("OnSignedIn session = %+v", gotSession)
	}
	if backend.lastSignIn[0] != "a@b.com" {
		t.Errorf("email = %q, want trimmed a@b.com", backend.lastSignIn[0])
	}
	if f.State().Pending {
		t.Error("flow still pending after submit finished")
	}
}

func TestSubmitLogin_InvalidCredentialsMessage(t *testing.T) {
	f := New(&fakeBackend{signInErr: apiError("invalid_credentials")})

	f.SetFields(Fields{Email: "a@b.com", Password: "wrong"})
	f.SubmitLogin(context.Background())

	state := f.State()
	if state.View != ViewLogin {
		t.Errorf("view = %v, want LOGIN", state.View)
	}
	if state.ErrorMessage != "Incorrect email or password." {
		t.Errorf("error = %q, want the translated message", state.ErrorMessage)
	}
}

func TestSubmitLogin_UnconfirmedGoesToCheckEmail(t *testing.T) {
	f := New(&fakeBackend{signInErr: apiError("email_not_confirmed")})

	f.SetFields(Fields{Email: "a@b.com", Password: "secret1"})
	f.SubmitLogin(context.Background())

	state := f.State()
	if state.View != ViewCheckEmail {
		t.Fatalf("view = %v, want CHECK_EMAIL", state.View)
	}
	if state.RegisteredEmail != "a@b.com" {
		t.Errorf("RegisteredEmail = %q, want a@b.com", state.RegisteredEmail)
	}
	if state.ErrorMessage != "" {
		t.Errorf("unexpected error message %q", state.ErrorMessage)
	}
}

func TestSubmitLogin_ErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"unknown code keeps the server's message",
			&client.APIError{Status: 400, Type: "validation", Code: "some_new_code", Message: "the server explains itself"},
			"the server explains itself",
		},
		{
			"unknown code without a message",
			&client.APIError{Status: 500, Type: "unknown", Code: "some_new_code"},
			genericErrorMessage,
		},
		{
			"transport failure reads as a network problem",
			errors.New("dial tcp: connection refused"),
			networkErrorMessage,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New(&fakeBackend{signInErr: tc.err})
			f.SetFields(Fields{Email: "a@b.com", Password: "secret1"})

			f.SubmitLogin(context.Background())

			if got := f.State().ErrorMessage; got != tc.want {
				t.Errorf("error = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSubmitRegister_Success(t *testing.T) {
	backend := &fakeBackend{}
	f := New(backend)
	f.SwitchTo(ViewRegister)

	f.SetFields(Fields{
		Email: "new@b.com", Username: "newbie",
		Password: "secret1", ConfirmPassword: "secret1",
	})
	f.SubmitRegister(context.Background())

	state := f.State()
	if state.View != ViewCheckEmail {
		t.Fatalf("view = %v, want CHECK_EMAIL", state.View)
	}
	if state.RegisteredEmail != "new@b.com" {
		t.Errorf("RegisteredEmail = %q, want new@b.com", state.RegisteredEmail)
	}
	if backend.signUps != 1 {
		t.Errorf("signUps = %d, want 1", backend.signUps)
	}
}

func TestSubmitRegister_ClientSideValidation(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
	}{
		{"missing username", Fields{Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1"}},
		{"short password", Fields{Email: "a@b.com", Username: "u", Password: "12345", ConfirmPassword: "12345"}},
		{"mismatched confirmation", Fields{Email: "a@b.com", Username: "u", Password: "secret1", ConfirmPassword: "secret2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{}
			f := New(backend)
			f.SwitchTo(ViewRegister)
			f.SetFields(tc.fields)

			f.SubmitRegister(context.Background())

			if backend.signUps != 0 {
				t.Error("invalid form still reached the backend")
			}
			if f.State().ErrorMessage == "" {
				t.Error("no error message for invalid form")
			}
		})
	}
}

func TestForgotPasswordPath(t *testing.T) {
	f := New(&fakeBackend{})
	f.SwitchTo(ViewForgotPassword)
	f.SetFields(Fields{Email: "a@b.com"})

	f.SubmitForgot(context.Background())

	if got := f.State().View; got != ViewResetSent {
		t.Errorf("view = %v, want RESET_SENT", got)
	}
}

func TestEnterReset_JumpsToNewPassword(t *testing.T) {
	f := New(&fakeBackend{})
	f.EnterReset()

	if got := f.State().View; got != ViewNewPassword {
		t.Fatalf("view = %v, want NEW_PASSWORD", got)
	}

	f.SetFields(Fields{Password: "brand-new", ConfirmPassword: "brand-new"})
	f.SubmitNewPassword(context.Background())

	state := f.State()
	if state.View != ViewLogin {
		t.Errorf("view = %v, want LOGIN after update", state.View)
	}
	if state.InfoMessage == "" {
		t.Error("no confirmation message after password update")
	}
}

func TestResend_Cooldown(t *testing.T) {
	backend := &fakeBackend{signInErr: apiError("email_not_confirmed")}
	f := New(backend)

	current := time.Now()
	f.now = func() time.Time { return current }

	// Land on CHECK_EMAIL via an unconfirmed login.
	f.SetFields(Fields{Email: "a@b.com", Password: "secret1"})
	f.SubmitLogin(context.Background())

	f.Resend(context.Background())
	if backend.resends != 1 {
		t.Fatalf("resends = %d, want 1", backend.resends)
	}

	// Inside the window: refused locally.
	current = current.Add(10 * time.Second)
	f.Resend(context.Background())
	if backend.resends != 1 {
		t.Errorf("resend inside cooldown reached the backend")
	}
	if f.State().ErrorMessage == "" {
		t.Error("no message telling the user to wait")
	}

	// Past the window: goes through.
	current = current.Add(25 * time.Second)
	f.Resend(context.Background())
	if backend.resends != 2 {
		t.Errorf("resends = %d, want 2", backend.resends)
	}
}

func TestSubmit_IgnoredWhilePending(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{})}
	f := New(backend)
	f.SetFields(Fields{Email: "a@b.com", Password: "secret1"})

	done := make(chan struct{})
	go func() {
		f.SubmitLogin(context.Background())
		close(done)
	}()

	// Wait until the first submit is pending, then hammer the button.
	deadline := time.After(2 * time.Second)
	for !f.State().Pending {
		select {
		case <-deadline:
			t.Fatal("first submit never became pending")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	f.SubmitLogin(context.Background())
	f.SubmitLogin(context.Background())

	close(backend.gate)
	<-done

	if backend.signIns != 1 {
		t.Errorf("signIns = %d, want 1 — pending submits must be ignored", backend.signIns)
	}
}

func TestSwitchTo_IgnoredWhilePending(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{})}
	f := New(backend)
	f.SetFields(Fields{Email: "a@b.com", Password: "secret1"})

	go f.SubmitLogin(context.Background())
	deadline := time.After(2 * time.Second)
	for !f.State().Pending {
		select {
		case <-deadline:
			t.Fatal("submit never became pending")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	f.SwitchTo(ViewRegister)
	if got := f.State().View; got != ViewLogin {
		t.Errorf("view switched to %v during a pending submit", got)
	}
	close(backend.gate)
}

// Compile-time check: the real client satisfies the flow's backend.
var _ Backend = (*client.Client)(nil)
